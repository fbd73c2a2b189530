// Package xcodebuild tracks xcodebuild's build phases. The tool writes
// compiler diagnostics to stdout, so while a build is running the parser
// reports detected redirection and sibling parsers treat stdout as
// stderr.
package xcodebuild

import (
	"regexp"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

var (
	// buildRe matches the banner that opens a target build.
	// Example: === BUILD AGGREGATE TARGET Qt Preprocess OF PROJECT foo WITH THE DEFAULT CONFIGURATION (Debug) ===
	// Group 1: target
	// Group 2: project
	buildRe = regexp.MustCompile(`^=== BUILD (?:AGGREGATE )?TARGET (.*) OF PROJECT (.*) WITH .*CONFIGURATION (?:.*) ===$`)

	// successRe matches the closing success banner.
	successRe = regexp.MustCompile(`^\*\* BUILD SUCCEEDED \*\*$`)

	// signatureRe matches codesign's re-signing notice.
	// Example: /path/to/somefile.app: replacing existing signature
	// Group 1: file
	signatureRe = regexp.MustCompile(`^(.*): replacing existing signature$`)
)

type state int

const (
	outsideBuild state = iota
	inBuild
	unknownState // after a failure banner; phase boundaries are lost
)

// Parser follows the build phase across banner lines.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	state       state
	lastTarget  string
	lastProject string
	fatalErrors int
}

// NewParser creates an xcodebuild output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	lne := parser.RightTrimmed(line)

	if ch == parser.StdOut {
		if m := buildRe.FindStringSubmatch(line); m != nil {
			p.state = inBuild
			p.lastTarget = m[1]
			p.lastProject = m[2]
			return parser.Result{Status: parser.Done}
		}
		if p.state == inBuild || p.state == unknownState {
			if successRe.MatchString(lne) {
				p.state = outsideBuild
				return parser.Result{Status: parser.Done}
			}
			if m := signatureRe.FindStringSubmatchIndex(lne); m != nil {
				file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
				var links []parser.LinkSpec
				parser.AddLinkSpecForAbsolutePath(&links, file, -1, 0, m[2], m[3]-m[2])
				p.ScheduleTask(task.CompileTask(task.Warning, "Replacing signature", file, -1), 1, 0)
				return parser.Result{Status: parser.Done, Links: links}
			}
		}
		return parser.NotHandledResult
	}

	if lne == "** BUILD FAILED **" {
		p.fatalErrors++
		p.state = unknownState
		p.ScheduleTask(task.CompileTask(task.Error, "Xcodebuild failed.", "", -1), 1, 0)
		return parser.Result{Status: parser.Done}
	}
	if p.state == outsideBuild {
		return parser.NotHandledResult
	}
	// Inside a build, stderr is xcodebuild's own chatter; diagnostics
	// arrive on stdout.
	return parser.Result{Status: parser.Done}
}

// HasDetectedRedirection implements parser.RedirectionDetector: while a
// build is running, stdout carries the diagnostics.
func (p *Parser) HasDetectedRedirection() bool {
	return p.state != outsideBuild
}

// HasFatalErrors reports whether a failure banner was seen.
func (p *Parser) HasFatalErrors() bool {
	return p.fatalErrors > 0
}

var _ parser.LineParser = (*Parser)(nil)
var _ parser.RedirectionDetector = (*Parser)(nil)
