package msvc

import "regexp"

var (
	// diagnosticRe matches cl.exe and link.exe diagnostics, with the
	// optional parallel-build "N>" prefix and the optional column of
	// newer toolsets.
	// Examples:
	//   main.cpp(42) : error C2065: 'foo' : undeclared identifier
	//   3>main.cpp(42,13): warning C4101: 'x': unreferenced local variable
	//   LINK : fatal error LNK1104: cannot open file 'debug\foo.exe'
	//   cl : Command line warning D9002 : ignoring unknown option '-fopenmp'
	// Group 1: file, or a tool name such as LINK or NMAKE
	// Group 2: line number (optional)
	// Group 3: column number (optional)
	// Group 4: "Command line " or "fatal " qualifier (optional)
	// Group 5: severity keyword
	// Group 6: diagnostic code
	// Group 7: message
	diagnosticRe = regexp.MustCompile(`^(?:\d+>)?([^(]+?)(?:\((\d+)(?:,(\d+))?\))?\s?: (Command line |fatal )?(warning|error) ([A-Z]+\d{4,5}) ?:\s?(.*)$`)

	// additionalInfoRe matches the deeply indented follow-up lines cl
	// prints after ambiguity and overload errors.
	// Examples:
	//           could be 'void foo(int)'
	//           c:\src\foo.h(12) : see declaration of 'foo'
	// Group 1: file (optional)
	// Group 2: line number (optional)
	// Group 3: message
	additionalInfoRe = regexp.MustCompile(`^        (?:(?:could be |or )\s*')?(?:(.*)\((\d+)\) : )?(.*?)'?$`)
)

// toolNames are diagnostic sources that are not source files.
var toolNames = map[string]bool{
	"cl":    true,
	"LINK":  true,
	"NMAKE": true,
	"MT":    true,
}
