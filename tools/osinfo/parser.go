// Package osinfo catches operating-system level failures that surface in
// build output, such as Windows refusing to overwrite a running
// executable. Failures of this kind doom the build regardless of what
// the toolchain reported.
package osinfo

import (
	"runtime"
	"strings"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

const sharingViolation = "The process cannot access the file because it is being used by another process."

// Parser matches host-specific failure messages.
//
// Thread Safety: not thread-safe; use one instance per output stream.
type Parser struct {
	parser.Base
	windowsHost bool
	fatal       bool
}

// NewParser creates an OS message parser for the current host.
func NewParser() *Parser {
	return NewParserForHost(runtime.GOOS == "windows")
}

// NewParserForHost creates a parser with an explicit host flavor. For
// tests and remote-build setups where the build host differs from the
// local one.
func NewParserForHost(windows bool) *Parser {
	return &Parser{windowsHost: windows}
}

// HandleLine implements parser.LineParser.
func (p *Parser) HandleLine(line string, ch parser.Channel) parser.Result {
	if ch != parser.StdOut || !p.windowsHost {
		return parser.NotHandledResult
	}
	if strings.TrimSpace(line) == sharingViolation {
		p.fatal = true
		p.ScheduleTask(task.CompileTask(task.Error, sharingViolation+"\n"+
			"Close all running instances of the application before starting a build.", "", -1), 1, 0)
		return parser.Result{Status: parser.Done}
	}
	return parser.NotHandledResult
}

// HasFatalErrors reports whether a fatal OS failure was seen.
func (p *Parser) HasFatalErrors() bool {
	return p.fatal
}

var _ parser.LineParser = (*Parser)(nil)
