package gcc

import "regexp"

// filePattern matches the file part of a GCC diagnostic: an optionally
// drive-lettered path ending in an extension, or the <command-line>
// pseudo file for -D and friends.
const filePattern = `(<command[ -]line>|(?:[A-Za-z]:)?[^:]+\.[^:]+)`

var (
	// driverRe matches messages from the compiler driver itself, with or
	// without a cross-compile prefix or version suffix.
	// Examples:
	//   gcc: error: unrecognized command line option '-flto2'
	//   arm-none-eabi-g++-9.2.1: fatal error: no input files
	//   cc1plus: out of memory allocating 156691744 bytes
	// Group 1: message
	driverRe = regexp.MustCompile(`^(?:.*[\\/])?(?:[a-z0-9]+-[a-z0-9]+-[a-z0-9]+-)?(?:gcc|g\+\+|cc1|cc1plus)(?:-[0-9.]+)?(?:\.exe)?: (.+)$`)

	// diagnosticRe matches the standard diagnostic header.
	// Examples:
	//   main.cpp:9: error: 'sfasdf' was not declared in this scope
	//   main.cpp:9:3: warning: unused variable 'i' [-Wunused-variable]
	//   main.cpp:1:1: fatal error: missing.h: No such file or directory
	//   <command-line>:0:0: note: this is the location of the previous definition
	// Group 1: file
	// Group 2: line number
	// Group 3: column number (optional)
	// Group 4: "fatal " qualifier (optional)
	// Group 5: severity keyword (optional)
	// Group 6: message
	diagnosticRe = regexp.MustCompile(`^` + filePattern + `:(\d+):(?:(\d+):)?\s+(?:#?(fatal )?(warning|error|note):?\s)?(\S.*)$`)

	// scopeRe matches function and namespace context lines that precede a
	// diagnostic.
	// Example: main.cpp: In function 'int main(int, char**)':
	scopeRe = regexp.MustCompile(`^` + filePattern + `:(?:(\d+):)?(?:(\d+):)?\s+(?:In .*function .*|At global scope|At top level):$`)

	// includedRe matches include-chain lines, both the leading
	// "In file included from x:1," and the indented "from y:2:" that
	// follow it.
	// Group 1: file
	// Group 2: line number
	includedRe = regexp.MustCompile(`\bfrom\s+([^:]+):(\d+)(?::\d+)?[,:]?$`)

	// instantiatedRe matches template instantiation trails.
	// Examples:
	//   x.h:50:5:   required from 'void D<T>::foo() [with T = int]'
	//   x.h:12:   instantiated from 'void B<T>::bar() [with T = int]'
	instantiatedRe = regexp.MustCompile(`^` + filePattern + `:(\d+)(?::(\d+))?:\s+(?:required|instantiated) from\b`)
)
