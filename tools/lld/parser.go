// Package lld parses diagnostics from LLVM's lld family of linkers,
// which prefix every message with the flavor name and continue
// multi-line reports with ">>>" lines.
package lld

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

var (
	// messageRe matches the first line of an lld report.
	// Examples:
	//   ld.lld: error: undefined symbol: func()
	//   lld-link: warning: /align specified without /driver; image may not run
	// Group 1: severity keyword
	// Group 2: message
	messageRe = regexp.MustCompile(`^(?:ld\.lld|ld64\.lld|lld-link|wasm-ld)(?:\.exe)?: (?:(error|warning): )?(.+)$`)

	// locationRe extracts the file and line from ">>> referenced by" and
	// ">>> defined at" continuation lines.
	// Examples:
	//   >>> referenced by /tmp/ccFhJ8xv.o:(.text+0x1a)
	//   >>> referenced by main.cpp:10
	//   >>> defined at foo.cpp:2
	// Group 1: file
	// Group 2: line number (optional)
	locationRe = regexp.MustCompile(`^>>> (?:referenced by|defined at) (.+?)(?::(\d+))?(?::\(.+\))?$`)
)

// Parser keeps the current report open while ">>>" lines accumulate.
// lld writes to stderr only.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	acc parser.Accumulator
}

// NewParser creates an lld output parser.
func NewParser() *Parser {
	return &Parser{}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	if ch == parser.StdOut {
		return parser.NotHandledResult
	}
	lne := parser.RightTrimmed(line)

	if strings.HasPrefix(lne, ">>>") && p.acc.Active() {
		var links []parser.LinkSpec
		if m := locationRe.FindStringSubmatchIndex(lne); m != nil {
			file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
			lineNum := -1
			if s := parser.Submatch(lne, m, 2); s != "" {
				lineNum, _ = strconv.Atoi(s)
			}
			parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
			p.acc.AmendDetail(lne)
			// The first located reference becomes the task's anchor.
			p.acc.SetLocationIfNone(file, lineNum, 0)
			return parser.Result{Status: parser.InProgress, Links: links}
		}
		p.acc.AmendDetail(lne)
		return parser.Result{Status: parser.InProgress}
	}

	if m := messageRe.FindStringSubmatch(lne); m != nil {
		p.Flush()
		tp := task.Error
		if m[1] == "warning" {
			tp = task.Warning
		}
		p.acc.Start(tp, m[2], lne, "", -1, 0)
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

var _ parser.LineParser = (*Parser)(nil)
