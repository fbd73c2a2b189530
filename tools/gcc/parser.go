// Package gcc parses diagnostics from GCC and compatible compiler
// drivers: error/warning/note headers, include chains, template
// instantiation trails, and the source excerpt plus caret lines that
// follow a header.
package gcc

import (
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// Parser accumulates one diagnostic at a time. GCC writes diagnostics to
// stderr only, so stdout lines are declined.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	acc   parser.Accumulator
	fatal int
}

// NewParser creates a GCC output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	if ch == parser.StdOut {
		return parser.NotHandledResult
	}
	lne := parser.RightTrimmed(line)

	if m := driverRe.FindStringSubmatch(lne); m != nil {
		desc := m[1]
		tp := task.Error
		if rest, ok := strings.CutPrefix(desc, "warning: "); ok {
			tp = task.Warning
			desc = rest
		} else if rest, ok := strings.CutPrefix(desc, "fatal error: "); ok {
			desc = rest
			p.fatal++
		} else if strings.Contains(desc, "internal compiler error") ||
			strings.HasPrefix(desc, "out of memory") {
			p.fatal++
		}
		p.startOrAmend(tp, desc, lne, "", -1, 0)
		return parser.Result{Status: parser.InProgress}
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

	if m := includedRe.FindStringSubmatchIndex(lne); m != nil {
		file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
		lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
		p.startOrAmend(task.Unknown, lne, lne, file, lineNum, 0)
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	if m := instantiatedRe.FindStringSubmatchIndex(lne); m != nil {
		file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
		lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
		p.startOrAmend(task.Unknown, lne, lne, file, lineNum, 0)
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	if m := scopeRe.FindStringSubmatchIndex(lne); m != nil {
		file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
		lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
		p.startOrAmend(task.Unknown, lne, lne, file, lineNum, 0)
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	// Source excerpt and caret lines attach to the running diagnostic.
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

// HasFatalErrors reports whether a fatal diagnostic or a compiler crash
// was seen.
func (p *Parser) HasFatalErrors() bool {
	return p.fatal > 0
}

// startOrAmend extends the running diagnostic when the new line continues
// it, otherwise flushes and starts a new one. While the accumulated
// diagnostic is untyped it is still context (include chains, scope lines,
// instantiation trails) and absorbs everything; once typed, only notes,
// indented lines, and lines after a trailing ':' or ',' continue it.
func (p *Parser) startOrAmend(tp task.Type, summary, raw, file string, line, col int) {
	if p.acc.Active() && p.isContinuation(raw) {
		p.acc.Amend(tp, summary, raw, file, line, col)
		return
	}
	p.Flush()
	p.acc.Start(tp, summary, raw, file, line, col)
}

func (p *Parser) isContinuation(raw string) bool {
	if p.acc.Untyped() {
		return true
	}
	last := p.acc.LastDetail()
	return strings.HasSuffix(last, ":") || strings.HasSuffix(last, ",") ||
		strings.HasPrefix(raw, " ") || strings.Contains(raw, ": note:")
}

var _ parser.LineParser = (*Parser)(nil)
