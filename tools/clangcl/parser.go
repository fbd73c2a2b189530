// Package clangcl parses diagnostics from clang-cl, the MSVC-compatible
// Clang driver: MSVC-shaped file(line,col) headers with Clang severity
// labels, followed by Clang-style source excerpts and caret markers.
package clangcl

import (
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// Parser accumulates one diagnostic at a time. clang-cl mirrors cl.exe
// and writes to both streams depending on the build driver, so both
// channels are accepted.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	acc   parser.Accumulator
	fatal int
}

// NewParser creates a clang-cl output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	lne := parser.RightTrimmed(line)

	if summaryRe.MatchString(lne) {
		p.Flush()
		return parser.Result{Status: parser.Done}
	}

	if m := driverRe.FindStringSubmatch(lne); m != nil {
		p.Flush()
		tp := task.Error
		if m[2] == "warning" {
			tp = task.Warning
		} else if m[1] != "" {
			p.fatal++
		}
		p.acc.Start(tp, m[3], lne, "", -1, 0)
		return parser.Result{Status: parser.InProgress}
	}

	if m := diagnosticRe.FindStringSubmatchIndex(lne); m != nil {
		file := p.AbsoluteFilePath(strings.TrimSpace(parser.Submatch(lne, m, 1)))
		lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
		col, _ := strconv.Atoi(parser.Submatch(lne, m, 3))
		tp := task.Unknown
		switch parser.Submatch(lne, m, 5) {
		case "warning":
			tp = task.Warning
		case "error":
			tp = task.Error
			if parser.Submatch(lne, m, 4) != "" {
				p.fatal++
			}
		}
		desc := parser.Submatch(lne, m, 6)
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, col, m[2], m[3]-m[2])
		if p.acc.Active() && tp == task.Unknown {
			// Notes attach to the diagnostic they annotate.
			p.acc.Amend(tp, desc, lne, file, lineNum, col)
		} else {
			p.Flush()
			p.acc.Start(tp, desc, lne, file, lineNum, col)
		}
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	// Source excerpt and caret lines.
	if p.acc.Active() && (lne == "" || strings.HasPrefix(line, " ")) {
		if lne != "" {
			p.acc.AmendDetail(lne)
		}
		return parser.Result{Status: parser.InProgress}
	}

	p.Flush()
	return parser.NotHandledResult
}

// Flush implements parser.LineParser.
func (p *Parser) Flush() {
	if t, lines := p.acc.Take(); !t.IsNull() {
		p.ScheduleTask(t, lines, 1)
	}
}

// HasFatalErrors reports whether a fatal diagnostic was seen.
func (p *Parser) HasFatalErrors() bool {
	return p.fatal > 0
}

var _ parser.LineParser = (*Parser)(nil)
