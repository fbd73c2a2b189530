package ld

import "regexp"

var (
	// driverRe matches messages from the linker driver, with or without
	// a path or cross-compile prefix.
	// Examples:
	//   /usr/bin/ld: cannot find -lfoo
	//   arm-none-eabi-ld.exe: warning: cannot find entry symbol _start
	//   collect2: error: ld returned 1 exit status
	// Group 1: message
	driverRe = regexp.MustCompile(`^(?:.*[\\/])?(?:[a-z0-9]+-[a-z0-9]+-[a-z0-9]+-)?(?:ld|gold|collect2)(?:-[0-9.]+)?(?:\.exe)?: (.+)$`)

	// ranlibRe matches the harmless no-symbols notice ranlib and
	// libtool print for empty object files.
	// Example: ranlib: file: libmine.a(empty.o) has no symbols
	// Group 1: description
	ranlibRe = regexp.MustCompile(`^(?:libtool: )?ranlib(?:\.exe)?: (file: .+ has no symbols)$`)

	// inFunctionRe matches the function-context lines ld prints before
	// relocation errors.
	// Examples:
	//   main.o: In function `main':
	//   libfoo.a(bar.o): In function 'frob':
	// Group 1: object or archive member
	// Group 2: message
	inFunctionRe = regexp.MustCompile("^(\\S+?(?:\\(\\S+\\))?): (In function [`'].+':)$")

	// referenceRe matches relocation-level diagnostics.
	// Examples:
	//   main.cpp:(.text+0x40): undefined reference to `clock_gettime'
	//   foo.cpp:42: undefined reference to `bar()'
	//   bar.o:(.data+0x0): multiple definition of `answer'
	// Group 1: file, object, or archive member
	// Group 2: line number (optional)
	// Group 3: message
	referenceRe = regexp.MustCompile("^(.+?):(?:(\\d+):)?(?:\\(\\.[^)]+\\):)?\\s*((?:undefined reference to|multiple definition of|first defined here|cannot find) ?.*)$")

	// undefinedSymbolsRe matches the header of the Mach-O linker's
	// undefined-symbols report; indented lines follow.
	// Example: Undefined symbols for architecture x86_64:
	undefinedSymbolsRe = regexp.MustCompile(`^Undefined symbols for architecture .+:$`)
)

// noisePrefixes are stderr lines other tools interleave with linker
// output and that carry no diagnostic value.
var noisePrefixes = []string{
	"TeamBuilder ",
	"distcc[",
}
