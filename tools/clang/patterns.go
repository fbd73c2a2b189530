package clang

import "regexp"

var (
	// driverRe matches messages from the clang driver.
	// Examples:
	//   clang: error: no input files
	//   clang++: fatal error: linker command failed with exit code 1
	// Group 1: "fatal" qualifier (optional)
	// Group 2: severity keyword
	// Group 3: message
	driverRe = regexp.MustCompile(`^clang(?:\+\+)?(?:-\d+)?(?:\.exe)?: +(fatal +)?(warning|error|note): (.+)$`)

	// diagnosticRe matches clang's file:line:col headers. Unlike GCC,
	// clang always labels the severity.
	// Example: main.cpp:3:5: error: use of undeclared identifier 'foo'
	// Group 1: file
	// Group 2: line number
	// Group 3: column number (optional)
	// Group 4: "fatal " qualifier (optional)
	// Group 5: severity keyword
	// Group 6: message
	diagnosticRe = regexp.MustCompile(`^((?:[A-Za-z]:)?[^:\s][^:]*?):(\d+)(?::(\d+))?: (fatal )?(error|warning|note): (.+)$`)

	// includedRe matches clang include-chain lines.
	// Examples:
	//   In file included from ./header.h:72:
	//   In module 'Foundation' imported from main.mm:1:
	// Group 1: file
	// Group 2: line number
	includedRe = regexp.MustCompile(`^In (?:inlined )?file included from ([^:]+):(\d+)(?::\d+)?[,:]$`)

	// summaryRe matches the per-invocation summary clang prints last.
	// Examples:
	//   2 warnings and 1 error generated.
	//   1 error generated.
	summaryRe = regexp.MustCompile(`^\d+ (?:warnings?|errors?)(?: and \d+ errors?)? generated\.$`)

	// codesignRe matches macOS code signing failures surfaced through the
	// compile step.
	// Example: Code Sign error: No code signing identities found
	// Group 1: message
	codesignRe = regexp.MustCompile(`^Code ?Sign error: (.+)$`)
)
