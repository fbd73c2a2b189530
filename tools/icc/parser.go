// Package icc parses diagnostics from the Intel C++ compiler on Linux,
// which spreads one diagnostic over several lines and terminates it with
// a blank line:
//
//	main.cpp(13): error #308: function "AClass::privatefunc" is inaccessible
//	      b.privatefunc();
//	        ^
//
//	(blank line)
package icc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

var (
	// firstLineRe matches the head of a diagnostic.
	// Group 1: file
	// Group 2: line number
	// Group 3: severity keyword (optional; remarks have none)
	// Group 4: message
	firstLineRe = regexp.MustCompile(`^([^()]+?)\((\d+)\): (?:(error|warning)(?: #\d+)?: )?(.+)$`)

	// caretRe matches the column marker line under the quoted source.
	caretRe = regexp.MustCompile(`^\s*\^\s*$`)

	// pchInfoRe matches precompiled header notices, which are not
	// diagnostics.
	// Example: "stdafx.pch": creating precompiled header file "stdafx.pch"
	pchInfoRe = regexp.MustCompile(`^".+": (?:creating|using) precompiled header file ".+"$`)

	// continuationRe matches indented detail lines.
	continuationRe = regexp.MustCompile(`^\s+(.*)$`)
)

// Parser accumulates the current diagnostic until the terminating blank
// line. icc writes diagnostics to stderr only.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	expectFirstLine bool
	pending         task.Task
	lines           int
}

// NewParser creates an icc output parser.
func NewParser() *Parser {
	return &Parser{expectFirstLine: true}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	if ch == parser.StdOut {
		return parser.NotHandledResult
	}
	lne := parser.RightTrimmed(line)

	if pchInfoRe.MatchString(lne) {
		return parser.Result{Status: parser.Done}
	}

	if p.expectFirstLine {
		m := firstLineRe.FindStringSubmatchIndex(lne)
		if m == nil {
			return parser.NotHandledResult
		}
		tp := task.Unknown
		switch parser.Submatch(lne, m, 3) {
		case "error":
			tp = task.Error
		case "warning":
			tp = task.Warning
		}
		file := p.AbsoluteFilePath(parser.Submatch(lne, m, 1))
		lineNum, _ := strconv.Atoi(parser.Submatch(lne, m, 2))
		var links []parser.LinkSpec
		parser.AddLinkSpecForAbsolutePath(&links, file, lineNum, 0, m[2], m[3]-m[2])
		p.pending = task.CompileTask(tp, strings.TrimSpace(parser.Submatch(lne, m, 4)), file, lineNum)
		p.lines = 1
		p.expectFirstLine = false
		return parser.Result{Status: parser.InProgress, Links: links}
	}

	// A blank line terminates the diagnostic.
	if lne == "" {
		p.finalize()
		return parser.Result{Status: parser.Done}
	}

	// The caret marker is consumed but carries no text worth keeping.
	if caretRe.MatchString(line) {
		p.lines++
		return parser.Result{Status: parser.InProgress}
	}

	if m := continuationRe.FindStringSubmatch(line); m != nil {
		p.pending.Details = append(p.pending.Details, strings.TrimSpace(m[1]))
		p.lines++
		return parser.Result{Status: parser.InProgress}
	}

	p.Flush()
	return parser.NotHandledResult
}

// Flush implements parser.LineParser.
func (p *Parser) Flush() {
	if !p.pending.IsNull() {
		p.finalize()
	}
}

func (p *Parser) finalize() {
	t := p.pending
	p.pending = task.Task{}
	p.expectFirstLine = true
	if !t.IsNull() {
		p.ScheduleTask(t, p.lines, 0)
	}
	p.lines = 0
}

var _ parser.LineParser = (*Parser)(nil)
