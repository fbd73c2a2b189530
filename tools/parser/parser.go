// Package parser defines the line-parser contract shared by all tool
// parsers: each parser consumes one line of build output at a time and
// either claims it, claims it provisionally while a multi-line diagnostic
// accumulates, or declines it.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/orca-ide/outparse/task"
)

// Channel identifies which stream of the build process a line arrived on.
type Channel int

const (
	StdOut Channel = iota
	StdErr
)

// String returns "stdout" or "stderr".
func (c Channel) String() string {
	if c == StdErr {
		return "stderr"
	}
	return "stdout"
}

// Status is a parser's verdict on a single line.
type Status int

const (
	// NotHandled declines the line; the dispatcher offers it to the next
	// parser in the suite.
	NotHandled Status = iota

	// InProgress claims the line as part of a multi-line diagnostic still
	// being accumulated. The same parser is offered the next line first.
	InProgress

	// Done claims the line and ends any in-progress diagnostic.
	Done
)

// LinkSpec marks a substring of an output line that refers to a file
// location, so consumers can render it as a link.
type LinkSpec struct {
	StartPos int    `json:"startPos"`
	Length   int    `json:"length"`
	Href     string `json:"href"`
}

// FileLinkHref builds the href for a file location link.
func FileLinkHref(file string, line, column int) string {
	return fmt.Sprintf("olpfile://%s::%d::%d", file, line, column)
}

// AddLinkSpecForAbsolutePath appends a link spec for the given range, but
// only when the path is absolute: relative paths that survived resolution
// point nowhere useful.
func AddLinkSpecForAbsolutePath(links *[]LinkSpec, file string, line, column, startPos, length int) {
	if !filepath.IsAbs(file) || length <= 0 {
		return
	}
	*links = append(*links, LinkSpec{StartPos: startPos, Length: length, Href: FileLinkHref(file, line, column)})
}

// Result is the outcome of handling one line.
type Result struct {
	Status Status
	Links  []LinkSpec
}

// NotHandledResult declines a line.
var NotHandledResult = Result{Status: NotHandled}

// Scheduled is a task queued by a parser while handling a line, together
// with the number of output lines the diagnostic spans and how many of
// those to skip when anchoring the task in the output.
type Scheduled struct {
	Task         task.Task
	OutputLines  int
	SkippedLines int
}

// RedirectionDetector is implemented by parsers that can notice their tool
// writing diagnostics to stdout, so sibling parsers treat stdout as stderr.
type RedirectionDetector interface {
	HasDetectedRedirection() bool
}

// LineParser consumes build output one line at a time.
//
// Thread Safety: parsers maintain state across lines and are NOT
// thread-safe. Create one suite per goroutine; the task ID sequence is
// atomic, so concurrent suites still produce unique IDs.
type LineParser interface {
	// HandleLine offers one line, without its trailing newline, to the
	// parser. ch is the channel the line effectively arrived on.
	HandleLine(line string, ch Channel) Result

	// Flush finalizes and schedules any pending diagnostic. Called when
	// the output ends or when a consumer needs intermediate results.
	Flush()

	// HasFatalErrors reports whether the parser saw output implying the
	// build cannot have succeeded regardless of exit code.
	HasFatalErrors() bool

	// Plumbing provided by Base.
	TakeScheduledTasks() []Scheduled
	SetFileResolver(r task.FileResolver)
	AddSearchDir(dir string)
	DropSearchDir(dir string)
	SetDemoteErrorsToWarnings(demote bool)
	SetRedirectionDetector(d RedirectionDetector)
	NeedsRedirection() bool
	HasDetectedRedirection() bool
}

// RightTrimmed strips trailing whitespace. Parsers match against the
// trimmed line so trailing blanks from the tool never break a pattern.
func RightTrimmed(line string) string {
	return strings.TrimRight(line, " \t\r\n\v\f")
}

// Submatch returns the text of the nth submatch from the index pairs of
// FindStringSubmatchIndex, or "" when the group did not participate.
func Submatch(s string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
