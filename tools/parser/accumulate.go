package parser

import "github.com/orca-ide/outparse/task"

// Accumulator builds one task from a run of related output lines, the way
// compiler diagnostics span include chains, a header line, and source
// excerpts. The raw output lines collect in the task's details.
type Accumulator struct {
	current task.Task
	lines   int
}

// Active reports whether a diagnostic is being accumulated.
func (a *Accumulator) Active() bool {
	return !a.current.IsNull()
}

// Start begins a new diagnostic. Callers flush any previous one first.
func (a *Accumulator) Start(tp task.Type, summary, raw, file string, line, col int) {
	t := task.CompileTaskAt(tp, summary, file, line, col)
	t.Details = []string{raw}
	a.current = t
	a.lines = 1
}

// Amend extends the running diagnostic with another parsed line. A typed
// line arriving on an Unknown task promotes the type, summary, and
// location: the typed line is the real diagnostic, earlier lines were
// include or scope context.
func (a *Accumulator) Amend(tp task.Type, summary, raw, file string, line, col int) {
	a.current.Details = append(a.current.Details, raw)
	a.lines++
	if a.current.Type == task.Unknown && tp != task.Unknown {
		a.current.Type = tp
		a.current.Summary = summary
		if file != "" {
			a.current.SetFile(file)
			a.current.Line = line
			a.current.MovedLine = line
			a.current.Column = col
		}
	}
}

// Untyped reports whether the accumulated diagnostic still lacks a
// severity, i.e. only context lines have arrived so far.
func (a *Accumulator) Untyped() bool {
	return a.current.Type == task.Unknown
}

// SetLocationIfNone anchors the diagnostic at the given location when it
// has none yet.
func (a *Accumulator) SetLocationIfNone(file string, line, col int) {
	if a.current.File != "" || file == "" {
		return
	}
	a.current.SetFile(file)
	a.current.Line = line
	a.current.MovedLine = line
	a.current.Column = col
}

// AmendDetail appends a plain continuation line, e.g. a source excerpt or
// caret marker.
func (a *Accumulator) AmendDetail(raw string) {
	a.current.Details = append(a.current.Details, raw)
	a.lines++
}

// LastDetail returns the most recently accumulated raw line, or "".
func (a *Accumulator) LastDetail() string {
	if n := len(a.current.Details); n > 0 {
		return a.current.Details[n-1]
	}
	return ""
}

// Take returns the finished task and the number of output lines it spans,
// clearing the accumulator. Single-line diagnostics drop their details,
// which would only repeat the summary. The task is null if nothing was
// accumulated.
func (a *Accumulator) Take() (task.Task, int) {
	t, n := a.current, a.lines
	a.current = task.Task{}
	a.lines = 0
	if !t.IsNull() && len(t.Details) == 1 {
		t.Details = nil
	}
	return t, n
}
