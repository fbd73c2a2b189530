// Package task defines the structured diagnostic model produced by the
// output parsers: a Task is one compiler, linker, or build-system message
// with its severity, location, and descriptive text.
package task

import (
	"path/filepath"
	"strings"
	"sync/atomic"
)

// Type is the severity of a task.
type Type int

const (
	// Unknown is the zero value; tasks without a recognizable severity.
	Unknown Type = iota
	Error
	Warning
)

// String returns the lowercase name used in JSON output and CLI display.
func (t Type) String() string {
	switch t {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the type as its string name.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a type from its string name. Unrecognized names
// decode as Unknown.
func (t *Type) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"error"`:
		*t = Error
	case `"warning"`:
		*t = Warning
	default:
		*t = Unknown
	}
	return nil
}

// CompareTypes orders types for display: errors first, then warnings,
// then everything else. Returns a negative value if a sorts before b.
func CompareTypes(a, b Type) int {
	return a.displayRank() - b.displayRank()
}

func (t Type) displayRank() int {
	switch t {
	case Error:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}

// Category groups tasks by their origin.
type Category string

const (
	Compile     Category = "Task.Category.Compile"
	BuildSystem Category = "Task.Category.Buildsystem"
	Deployment  Category = "Task.Category.Deployment"
	AutoTest    Category = "Task.Category.Autotest"
)

// IDSequence produces task IDs. IDs start at 1; 0 marks the null task.
//
// Thread Safety: Next is safe for concurrent use, so parsers running in
// separate goroutines may share one sequence.
type IDSequence struct {
	n atomic.Uint64
}

// Next returns the next ID in the sequence.
func (s *IDSequence) Next() uint64 {
	return s.n.Add(1)
}

// IDs is the process-wide ID sequence. Tests that assert on concrete IDs
// should swap in a fresh sequence and restore the old one when done.
var IDs = &IDSequence{}

// FileResolver locates project files referenced by relative paths in tool
// output. Implementations return zero or more absolute candidate paths.
type FileResolver interface {
	FindFile(path string) []string
}

// Resolver is consulted when constructing tasks with relative file paths.
// Install a project-aware implementation (e.g. filefind.Finder) at startup;
// a nil Resolver disables resolution. Swap it out in tests as needed.
var Resolver FileResolver

// Task is one structured diagnostic.
//
// Line counts from 1; -1 means unknown. MovedLine starts equal to Line and
// tracks the location as consumers edit the referenced file. Column counts
// from 1; 0 means unknown.
type Task struct {
	ID             uint64   `json:"id"`
	Type           Type     `json:"type"`
	Summary        string   `json:"summary"`
	Details        []string `json:"details,omitempty"`
	File           string   `json:"file,omitempty"`
	FileCandidates []string `json:"fileCandidates,omitempty"`
	Line           int      `json:"line,omitempty"`
	MovedLine      int      `json:"-"`
	Column         int      `json:"column,omitempty"`
	Category       Category `json:"category,omitempty"`
}

// New creates a task with a fresh ID. The description is split at the
// first newline: the first line becomes the summary, the rest the details.
func New(tp Type, description, file string, line int, category Category) Task {
	t := Task{
		ID:        IDs.Next(),
		Type:      tp,
		Line:      line,
		MovedLine: line,
		Category:  category,
	}
	t.setDescription(description)
	t.SetFile(file)
	return t
}

// CompileTask creates a compiler diagnostic task.
func CompileTask(tp Type, description, file string, line int) Task {
	return New(tp, description, file, line, Compile)
}

// CompileTaskAt is CompileTask with a known column.
func CompileTaskAt(tp Type, description, file string, line, column int) Task {
	t := New(tp, description, file, line, Compile)
	t.Column = column
	return t
}

// BuildSystemTask creates a build-system diagnostic task.
func BuildSystemTask(tp Type, description string) Task {
	return New(tp, description, "", -1, BuildSystem)
}

// DeploymentTask creates a deployment diagnostic task. It carries no
// source location.
func DeploymentTask(tp Type, description string) Task {
	return New(tp, description, "", -1, Deployment)
}

// SetFile assigns the file, resolving relative paths through the installed
// Resolver: exactly one candidate is adopted as the file; multiple
// candidates are stored for later disambiguation and the path is kept as
// given; no candidates keeps the path as given.
func (t *Task) SetFile(file string) {
	t.File = file
	t.FileCandidates = nil
	if file == "" || filepath.IsAbs(file) || Resolver == nil {
		return
	}
	candidates := Resolver.FindFile(file)
	if len(candidates) == 1 {
		t.File = candidates[0]
	} else if len(candidates) > 1 {
		t.FileCandidates = candidates
	}
}

func (t *Task) setDescription(description string) {
	lines := strings.Split(description, "\n")
	t.Summary = lines[0]
	if len(lines) > 1 {
		t.Details = lines[1:]
	} else {
		t.Details = nil
	}
}

// IsNull reports whether the task is the null task.
func (t Task) IsNull() bool {
	return t.ID == 0
}

// Clear resets the task to the null task.
func (t *Task) Clear() {
	*t = Task{Line: -1, MovedLine: -1}
}

// Description joins the summary and details with newlines.
func (t Task) Description() string {
	if len(t.Details) == 0 {
		return t.Summary
	}
	return t.Summary + "\n" + strings.Join(t.Details, "\n")
}
