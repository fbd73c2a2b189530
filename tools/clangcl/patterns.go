package clangcl

import "regexp"

var (
	// diagnosticRe matches clang-cl's MSVC-shaped headers, which carry
	// line and column in parentheses but clang's severity labels.
	// Example: .\qwindowsgdinativeinterface.cpp(48,3): error: unknown type name 'QEvent'
	// Group 1: file
	// Group 2: line number
	// Group 3: column number
	// Group 4: "fatal " qualifier (optional)
	// Group 5: severity keyword
	// Group 6: message
	diagnosticRe = regexp.MustCompile(`^(?:\d+>)?(.+?)\((\d+),(\d+)\)\s?: +(fatal )?(error|warning|note): (.+)$`)

	// driverRe matches messages from the clang-cl driver.
	// Example: clang-cl: error: no such file or directory: 'foo.cpp'
	// Group 1: "fatal " qualifier (optional)
	// Group 2: severity keyword
	// Group 3: message
	driverRe = regexp.MustCompile(`^clang-cl(?:\.exe)?\s?: +(fatal )?(warning|error): (.+)$`)

	// summaryRe matches the per-invocation summary.
	// Examples:
	//   1 warning and 1 error generated.
	//   1 error generated.
	summaryRe = regexp.MustCompile(`^\d+ (?:warnings?|errors?)(?: and \d+ errors?)? generated\.$`)
)
