// Package clang parses diagnostics from Clang and Clang-based drivers.
// The shape follows GCC output but with mandatory severity labels,
// "N warnings generated." summaries, and code signing failures on macOS.
package clang

import (
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// Parser accumulates one diagnostic at a time, stderr only.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	acc   parser.Accumulator
	fatal int
}

// NewParser creates a Clang output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	if ch == parser.StdOut {
		return parser.NotHandledResult
	}
	lne := parser.RightTrimmed(line)

	// The summary is noise; it also terminates any running diagnostic.
	if summaryRe.MatchString(lne) {
		p.Flush()
		return parser.Result{Status: parser.Done}
	}

	if m := codesignRe.FindStringSubmatch(lne); m != nil {
		p.Flush()
		p.acc.Start(task.Error, m[1], lne, "", -1, 0)
		return parser.Result{Status: parser.InProgress}
	}

	if m := driverRe.FindStringSubmatch(lne); m != nil {
		tp := task.Error
		switch m[2] {
		case "warning":
			tp = task.Warning
		case "note":
			tp = task.Unknown
		case "error":
			if m[1] != "" {
				p.fatal++
			}
		}
		p.startOrAmend(tp, m[3], lne, "", -1, 0)
		return parser.Result{Status: parser.InProgress}
	}

	if m := includedRe.FindStringSubmatchIndex(lne); m != nil {
		file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
		lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
		p.startOrAmend(task.Unknown, lne, lne, file, lineNum, 0)
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	if m := diagnosticRe.FindStringSubmatchIndex(lne); m != nil {
		file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
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
		p.startOrAmend(tp, desc, lne, file, lineNum, col)
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	// Source excerpts and caret markers, including clang's fix-it lines.
	if p.acc.Active() && (lne == "" || strings.HasPrefix(line, " ") || strings.ContainsAny(lne, "^~")) {
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

func (p *Parser) startOrAmend(tp task.Type, summary, raw, file string, line, col int) {
	// Untyped context keeps absorbing; notes continue the diagnostic they
	// annotate.
	last := p.acc.LastDetail()
	continues := p.acc.Untyped() ||
		strings.HasSuffix(last, ":") || strings.HasSuffix(last, ",") ||
		strings.HasPrefix(raw, " ") || strings.Contains(raw, ": note:")
	if p.acc.Active() && continues {
		p.acc.Amend(tp, summary, raw, file, line, col)
		return
	}
	p.Flush()
	p.acc.Start(tp, summary, raw, file, line, col)
}

var _ parser.LineParser = (*Parser)(nil)
