// Package ld parses diagnostics from the GNU and Mach-O linkers:
// undefined references, multiple definitions, driver fatals, and the
// function-context lines that precede relocation errors.
package ld

import (
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// Parser holds the Mach-O undefined-symbols report as an incomplete task
// while its indented lines accumulate. Linkers write to stderr only.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	acc parser.Accumulator
}

// NewParser creates a linker output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	if ch == parser.StdOut {
		return parser.NotHandledResult
	}
	lne := parser.RightTrimmed(line)

	if lne != "" && !strings.HasPrefix(line, " ") {
		p.Flush()
	}

	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(lne, prefix) {
			return parser.NotHandledResult
		}
	}
	if strings.Contains(lne, "ar: creating ") {
		return parser.NotHandledResult
	}

	if undefinedSymbolsRe.MatchString(lne) {
		p.acc.Start(task.Error, lne, lne, "", -1, 0)
		return parser.Result{Status: parser.InProgress}
	}
	if p.acc.Active() && strings.HasPrefix(line, "  ") {
		p.acc.AmendDetail(lne)
		return parser.Result{Status: parser.InProgress}
	}

	if m := ranlibRe.FindStringSubmatch(lne); m != nil {
		p.ScheduleTask(task.CompileTask(task.Warning, m[1], "", -1), 1, 0)
		return parser.Result{Status: parser.Done}
	}

	if m := driverRe.FindStringSubmatch(lne); m != nil {
		desc := m[1]
		tp := task.Error
		if rest, ok := strings.CutPrefix(desc, "warning: "); ok {
			tp = task.Warning
			desc = rest
		} else if rest, ok := strings.CutPrefix(desc, "fatal error: "); ok {
			desc = rest
		} else if rest, ok := strings.CutPrefix(desc, "error: "); ok {
			desc = rest
		}
		p.ScheduleTask(task.CompileTask(tp, desc, "", -1), 1, 0)
		return parser.Result{Status: parser.Done}
	}

	if m := inFunctionRe.FindStringSubmatchIndex(lne); m != nil {
		origin := parser.Submatch(lne, m, 1)
		file := p.AbsoluteFilePath(strings.SplitN(origin, "(", 2)[0])
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, -1, 0, m[2], m[3]-m[2])
		p.ScheduleTask(task.CompileTask(task.Unknown, parser.Submatch(lne, m, 2), file, -1), 1, 0)
		return parser.Result{Status: parser.Done, Links: links}
	}

	if m := referenceRe.FindStringSubmatchIndex(lne); m != nil {
		origin := parser.Submatch(lne, m, 1)
		lineNum := -1
		if s := parser.Submatch(lne, m, 2); s != "" {
			lineNum, _ = strconv.Atoi(s)
		}
		file := ""
		if !strings.ContainsAny(origin, "() ") {
			file = p.AbsoluteFilePath(origin)
		}
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
		p.ScheduleTask(task.CompileTask(task.Error, parser.Submatch(lne, m, 3), file, lineNum), 1, 0)
		return parser.Result{Status: parser.Done, Links: links}
	}

	return parser.NotHandledResult
}

// Flush implements parser.LineParser.
func (p *Parser) Flush() {
	if t, lines := p.acc.Take(); !t.IsNull() {
		p.ScheduleTask(t, lines, 0)
	}
}

var _ parser.LineParser = (*Parser)(nil)
