// Package dispatch feeds build output to a parser suite line by line.
// The first parser to claim a line wins; a parser mid-diagnostic is
// offered the next line before the rest of the suite; lines nobody
// claims pass through verbatim.
package dispatch

import (
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

// maxLineLength bounds what is offered to the parsers. Extremely long
// lines pass straight through, preventing pathological regex time.
const maxLineLength = 65536

// TaskSink receives tasks as parsers schedule them.
type TaskSink func(s parser.Scheduled)

// OutputSink receives lines no parser claimed, trailing newline
// included, on their effective channel.
type OutputSink func(text string, ch parser.Channel)

// LinkSink receives the file-location links parsers report for claimed
// lines.
type LinkSink func(line string, ch parser.Channel, links []parser.LinkSpec)

// Dispatcher owns an ordered parser suite and the line loop. The first
// parser in the suite doubles as the redirection detector for the rest,
// which only matters for suites led by a detector such as xcodebuild.
//
// Thread Safety: not thread-safe. Create one dispatcher per output
// stream; the task ID sequence stays unique across dispatchers.
type Dispatcher struct {
	parsers []parser.LineParser
	next    parser.LineParser

	tasks  TaskSink
	output OutputSink
	links  LinkSink

	forwardStdOut bool
	incomplete    string
	incompleteCh  parser.Channel
}

// New creates a dispatcher over the given suite.
func New(parsers ...parser.LineParser) *Dispatcher {
	d := &Dispatcher{parsers: parsers}
	if len(parsers) > 1 {
		for _, p := range parsers[1:] {
			p.SetRedirectionDetector(parsers[0])
		}
	}
	return d
}

// SetTaskSink installs the receiver for scheduled tasks.
func (d *Dispatcher) SetTaskSink(fn TaskSink) { d.tasks = fn }

// SetOutputSink installs the receiver for unclaimed lines.
func (d *Dispatcher) SetOutputSink(fn OutputSink) { d.output = fn }

// SetLinkSink installs the receiver for link metadata.
func (d *Dispatcher) SetLinkSink(fn LinkSink) { d.links = fn }

// SetForwardStdOutToStdErr treats all stdout as stderr, for build tools
// that write diagnostics to stdout unconditionally.
func (d *Dispatcher) SetForwardStdOutToStdErr(forward bool) { d.forwardStdOut = forward }

// SetDemoteErrorsToWarnings propagates error demotion to every parser.
func (d *Dispatcher) SetDemoteErrorsToWarnings(demote bool) {
	for _, p := range d.parsers {
		p.SetDemoteErrorsToWarnings(demote)
	}
}

// SetFileResolver installs the file resolver on every parser.
func (d *Dispatcher) SetFileResolver(r task.FileResolver) {
	for _, p := range d.parsers {
		p.SetFileResolver(r)
	}
}

// AddSearchDir adds a path-resolution directory to every parser.
func (d *Dispatcher) AddSearchDir(dir string) {
	for _, p := range d.parsers {
		p.AddSearchDir(dir)
	}
}

// DropSearchDir removes a path-resolution directory from every parser.
func (d *Dispatcher) DropSearchDir(dir string) {
	for _, p := range d.parsers {
		p.DropSearchDir(dir)
	}
}

// Append feeds a chunk of output. Text is split on newlines; a trailing
// partial line is buffered until the rest arrives or the channel
// switches. "\r\n" normalizes to "\n"; for lines rewritten with bare
// carriage returns, only the final content counts.
func (d *Dispatcher) Append(text string, ch parser.Channel) {
	if text == "" {
		return
	}
	if d.forwardStdOut && ch == parser.StdOut {
		ch = parser.StdErr
	}
	if d.incomplete != "" && d.incompleteCh != ch {
		line := d.incomplete
		d.incomplete = ""
		d.handleLine(line, d.incompleteCh)
	}

	text = d.incomplete + strings.ReplaceAll(text, "\r\n", "\n")
	d.incomplete = ""
	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			break
		}
		line := text[:idx]
		if cr := strings.LastIndexByte(line, '\r'); cr >= 0 {
			line = line[cr+1:]
		}
		d.handleLine(line, ch)
		text = text[idx+1:]
	}
	d.incomplete, d.incompleteCh = text, ch
}

// Flush processes any buffered partial line and flushes every parser,
// the mid-diagnostic one first so its pending task completes in order.
func (d *Dispatcher) Flush() {
	if d.incomplete != "" {
		line := d.incomplete
		d.incomplete = ""
		d.handleLine(line, d.incompleteCh)
	}
	if d.next != nil {
		d.next.Flush()
		d.next = nil
	}
	for _, p := range d.parsers {
		p.Flush()
	}
	d.drainTasks()
}

// EndOfOutput marks the end of the stream.
func (d *Dispatcher) EndOfOutput() {
	d.Flush()
}

// HasFatalErrors reports whether any parser saw fatal output.
func (d *Dispatcher) HasFatalErrors() bool {
	for _, p := range d.parsers {
		if p.HasFatalErrors() {
			return true
		}
	}
	return false
}

func (d *Dispatcher) handleLine(raw string, ch parser.Channel) {
	clean := stripansi.Strip(raw)
	if len(clean) > maxLineLength {
		d.emitOutput(raw, ch)
		return
	}

	res, handled := d.dispatch(clean, ch)
	if handled {
		if d.links != nil && len(res.Links) > 0 {
			d.links(clean, ch, res.Links)
		}
	} else {
		d.emitOutput(raw, ch)
	}
	d.drainTasks()
}

// dispatch routes one line: the parser that claimed the previous line
// goes first; if it declines, the rest of the suite is tried in order,
// skipping the one already asked.
func (d *Dispatcher) dispatch(line string, ch parser.Channel) (parser.Result, bool) {
	var tried parser.LineParser
	if d.next != nil {
		p := d.next
		res := p.HandleLine(line, channelFor(p, ch))
		switch res.Status {
		case parser.Done:
			d.next = nil
			return res, true
		case parser.InProgress:
			return res, true
		}
		d.next = nil
		tried = p
	}
	for _, p := range d.parsers {
		if p == tried {
			continue
		}
		res := p.HandleLine(line, channelFor(p, ch))
		switch res.Status {
		case parser.Done:
			return res, true
		case parser.InProgress:
			d.next = p
			return res, true
		}
	}
	return parser.Result{}, false
}

func (d *Dispatcher) emitOutput(line string, ch parser.Channel) {
	if d.output == nil {
		return
	}
	// A detected redirection moves unclaimed stdout to stderr too.
	if ch == parser.StdOut && len(d.parsers) > 0 && d.parsers[0].HasDetectedRedirection() {
		ch = parser.StdErr
	}
	d.output(line+"\n", ch)
}

func (d *Dispatcher) drainTasks() {
	for _, p := range d.parsers {
		for _, s := range p.TakeScheduledTasks() {
			if d.tasks != nil {
				d.tasks(s)
			}
		}
	}
}

func channelFor(p parser.LineParser, ch parser.Channel) parser.Channel {
	if ch == parser.StdOut && p.NeedsRedirection() {
		return parser.StdErr
	}
	return ch
}
