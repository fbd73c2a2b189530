// Package msvc parses diagnostics from the Microsoft toolchain: cl.exe
// compile errors, link.exe and nmake fatals, and the indented follow-up
// lines cl prints after ambiguity errors.
package msvc

import (
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// Parser holds at most one pending diagnostic, kept open so additional
// info lines can attach to it. MSVC tools write to stdout, but redirected
// setups land on stderr, so both channels are accepted.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	acc   parser.Accumulator
	fatal int
}

// NewParser creates an MSVC output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	lne := parser.RightTrimmed(line)

	if strings.HasPrefix(line, "        ") && p.acc.Active() {
		if m := additionalInfoRe.FindStringSubmatchIndex(lne); m != nil {
			file := parser.Submatch(lne, m, 1)
			var links []parser.LinkSpec
			if file != "" {
				file = p.AbsoluteFilePath(strings.TrimSpace(file))
				lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
				parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
			}
			p.acc.AmendDetail(strings.TrimSpace(lne))
			return parser.Result{Status: parser.InProgress, Links: links}
		}
	}

	if m := diagnosticRe.FindStringSubmatchIndex(lne); m != nil {
		p.Flush()
		origin := strings.TrimSpace(parser.Submatch(lne, m, 1))
		file := ""
		lineNum := -1
		col := 0
		var links []parser.LinkSpec
		if !toolNames[origin] {
			file = p.AbsoluteFilePath(origin)
			lineNum, _ = strconv.Atoi(parser.Submatch(lne, m, 2))
			if lineNum == 0 {
				lineNum = -1
			}
			col, _ = strconv.Atoi(parser.Submatch(lne, m, 3))
			parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, col, m[2], m[3]-m[2])
		}
		tp := task.Error
		if parser.Submatch(lne, m, 5) == "warning" {
			tp = task.Warning
		} else if parser.Submatch(lne, m, 4) == "fatal " {
			p.fatal++
		}
		desc := parser.Submatch(lne, m, 6) + ": " + parser.Submatch(lne, m, 7)
		p.acc.Start(tp, desc, lne, file, lineNum, col)
		return parser.Result{Status: parser.InProgress, Links: links}
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

// HasFatalErrors reports whether a fatal error, such as a LNK or NMAKE
// abort, was seen.
func (p *Parser) HasFatalErrors() bool {
	return p.fatal > 0
}

var _ parser.LineParser = (*Parser)(nil)
