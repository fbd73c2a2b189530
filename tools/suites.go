// Package tools assembles parser suites: ordered parser lists matched to
// a toolchain, compiler first, then the linkers that toolchain drives.
package tools

import (
	"fmt"
	"regexp"

	"github.com/orca-ide/outparse/tools/clang"
	"github.com/orca-ide/outparse/tools/clangcl"
	"github.com/orca-ide/outparse/tools/custom"
	"github.com/orca-ide/outparse/tools/gcc"
	"github.com/orca-ide/outparse/tools/icc"
	"github.com/orca-ide/outparse/tools/ld"
	"github.com/orca-ide/outparse/tools/lld"
	"github.com/orca-ide/outparse/tools/msvc"
	"github.com/orca-ide/outparse/tools/osinfo"
	"github.com/orca-ide/outparse/tools/parser"
	"github.com/orca-ide/outparse/tools/xcodebuild"
)

// Toolchain identifies a compiler family.
type Toolchain string

const (
	Gcc        Toolchain = "gcc"
	Clang      Toolchain = "clang"
	Msvc       Toolchain = "msvc"
	ClangCl    Toolchain = "clang-cl"
	Icc        Toolchain = "icc"
	Xcodebuild Toolchain = "xcodebuild"
)

// Toolchains lists the supported toolchains.
func Toolchains() []Toolchain {
	return []Toolchain{Gcc, Clang, Msvc, ClangCl, Icc, Xcodebuild}
}

// GccSuite returns the parsers for a GCC build: the compiler parser
// first, then lld before the classic linker, since lld messages would
// otherwise be picked apart by the looser ld patterns.
func GccSuite() []parser.LineParser {
	return []parser.LineParser{gcc.NewParser(), lld.NewParser(), ld.NewParser()}
}

// ClangSuite returns the parsers for a Clang build.
func ClangSuite() []parser.LineParser {
	return []parser.LineParser{clang.NewParser(), lld.NewParser(), ld.NewParser()}
}

// IccSuite returns the parsers for an Intel C++ build, which links with
// the GNU toolchain.
func IccSuite() []parser.LineParser {
	return []parser.LineParser{icc.NewParser(), lld.NewParser(), ld.NewParser()}
}

// MsvcSuite returns the parsers for an MSVC build. link.exe diagnostics
// share the compiler's format, so one parser covers both.
func MsvcSuite() []parser.LineParser {
	return []parser.LineParser{msvc.NewParser()}
}

// ClangClSuite returns the parsers for a clang-cl build, which links
// with lld-link.
func ClangClSuite() []parser.LineParser {
	return []parser.LineParser{clangcl.NewParser(), lld.NewParser()}
}

// XcodebuildSuite returns the xcodebuild phase tracker followed by the
// Clang suite it redirects stdout into.
func XcodebuildSuite() []parser.LineParser {
	return append([]parser.LineParser{xcodebuild.NewParser()}, ClangSuite()...)
}

// SuiteFor builds the suite for a toolchain: the toolchain's parsers,
// then the OS failure parser, then custom parsers materialized from the
// given definitions.
func SuiteFor(tc Toolchain, customSettings []custom.Settings) ([]parser.LineParser, error) {
	var suite []parser.LineParser
	switch tc {
	case Gcc:
		suite = GccSuite()
	case Clang:
		suite = ClangSuite()
	case Msvc:
		suite = MsvcSuite()
	case ClangCl:
		suite = ClangClSuite()
	case Icc:
		suite = IccSuite()
	case Xcodebuild:
		suite = XcodebuildSuite()
	default:
		return nil, fmt.Errorf("unknown toolchain %q", tc)
	}
	// The OS parser self-gates on the host flavor, so it is safe to carry
	// everywhere.
	suite = append(suite, osinfo.NewParser())
	for _, s := range customSettings {
		suite = append(suite, custom.NewParser(s))
	}
	return suite, nil
}

// toolchainPattern maps a command-line pattern to its toolchain.
type toolchainPattern struct {
	re *regexp.Regexp
	tc Toolchain
}

// toolchainPatterns detect the toolchain from a compile or link command.
// Ordered most specific first: clang-cl before clang, cross prefixes
// before bare names. Command names that can end in '+' terminate on
// whitespace, end of string, or a closing quote rather than \b, which
// never matches after a non-word character.
var toolchainPatterns = []toolchainPattern{
	{regexp.MustCompile(`(?:^|\s|/)clang-cl(?:\.exe)?(?:\s|$|")`), ClangCl},
	{regexp.MustCompile(`(?:^|\s|/)clang(?:\+\+)?(?:-\d+)?(?:\.exe)?(?:\s|$|")`), Clang},
	{regexp.MustCompile(`(?:^|\s|/)xcodebuild\b`), Xcodebuild},
	{regexp.MustCompile(`(?:^|\s|\\|/)cl(?:\.exe)?(?:\s|$|")`), Msvc},
	{regexp.MustCompile(`(?:^|\s|\\|/)(?:nmake|msbuild)(?:\.exe)?\b`), Msvc},
	{regexp.MustCompile(`(?:^|\s|/)(?:icc|icpc|icx)\b`), Icc},
	{regexp.MustCompile(`(?:^|\s|/)(?:[a-z0-9-]+-)?(?:gcc|g\+\+|cc|c\+\+)(?:-[0-9.]+)?(?:\.exe)?(?:\s|$|")`), Gcc},
	{regexp.MustCompile(`(?:^|\s|/)(?:make|ninja|cmake)\b`), Gcc},
}

// DetectToolchain guesses the toolchain from a build command line.
// Returns false when nothing matches.
func DetectToolchain(cmdline string) (Toolchain, bool) {
	for _, p := range toolchainPatterns {
		if p.re.MatchString(cmdline) {
			return p.tc, true
		}
	}
	return "", false
}
