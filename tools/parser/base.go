package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/orca-ide/outparse/task"
)

// maxPendingTasks bounds the scheduled-task queue. A parser schedules at
// most one finished diagnostic plus one just-started diagnostic per line;
// a third simultaneously pending task is a programming error.
const maxPendingTasks = 2

// Base carries the plumbing shared by every line parser: search
// directories, the file resolver, error demotion, and the scheduled-task
// side channel drained by the dispatcher. Embed it by value and override
// HandleLine, Flush, and (where relevant) HasFatalErrors or
// HasDetectedRedirection.
type Base struct {
	resolver      task.FileResolver
	searchDirs    []string
	demote        bool
	skipFileCheck bool
	pending       []Scheduled
	redirect      RedirectionDetector
}

// SetFileResolver installs the resolver used for relative paths.
func (b *Base) SetFileResolver(r task.FileResolver) {
	b.resolver = r
}

// AddSearchDir appends a directory tried when resolving relative paths.
func (b *Base) AddSearchDir(dir string) {
	b.searchDirs = append(b.searchDirs, dir)
}

// DropSearchDir removes the first occurrence of dir.
func (b *Base) DropSearchDir(dir string) {
	for i, d := range b.searchDirs {
		if d == dir {
			b.searchDirs = append(b.searchDirs[:i], b.searchDirs[i+1:]...)
			return
		}
	}
}

// SearchDirs returns the current search directories.
func (b *Base) SearchDirs() []string {
	return b.searchDirs
}

// SetDemoteErrorsToWarnings controls whether scheduled error tasks are
// downgraded to warnings, e.g. for output of a dependency the user cannot
// fix anyway.
func (b *Base) SetDemoteErrorsToWarnings(demote bool) {
	b.demote = demote
}

// SkipFileExistsCheck makes AbsoluteFilePath accept search-dir candidates
// without touching the filesystem. For tests.
func (b *Base) SkipFileExistsCheck() {
	b.skipFileCheck = true
}

// SetRedirectionDetector installs the suite's redirection detector.
func (b *Base) SetRedirectionDetector(d RedirectionDetector) {
	b.redirect = d
}

// NeedsRedirection reports whether stdout should be presented to this
// parser as stderr, per the suite's redirection detector.
func (b *Base) NeedsRedirection() bool {
	return b.redirect != nil && b.redirect.HasDetectedRedirection()
}

// HasDetectedRedirection is overridden by detector parsers; the default
// detects nothing.
func (b *Base) HasDetectedRedirection() bool {
	return false
}

// HasFatalErrors is overridden by parsers that track fatal output.
func (b *Base) HasFatalErrors() bool {
	return false
}

// Flush is overridden by stateful parsers; the default has nothing to do.
func (b *Base) Flush() {}

// ScheduleTask queues a task for the dispatcher to emit after the current
// line. outputLines is how many output lines the diagnostic spans,
// skippedLines how many of those precede the line the task anchors to.
func (b *Base) ScheduleTask(t task.Task, outputLines, skippedLines int) {
	if b.demote && t.Type == task.Error {
		t.Type = task.Warning
	}
	b.pending = append(b.pending, Scheduled{Task: t, OutputLines: outputLines, SkippedLines: skippedLines})
	if len(b.pending) > maxPendingTasks {
		panic("parser: more than two scheduled tasks pending")
	}
}

// TakeScheduledTasks drains the pending queue in scheduling order.
func (b *Base) TakeScheduledTasks() []Scheduled {
	pending := b.pending
	b.pending = nil
	return pending
}

// AbsoluteFilePath resolves a path mentioned in tool output. Absolute
// paths are cleaned and returned. Relative paths are tried against the
// search directories; a unique existing hit wins. Otherwise leading "../"
// segments are stripped and the file resolver is queried; again only a
// unique hit is adopted. Unresolvable paths are returned as given.
func (b *Base) AbsoluteFilePath(path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	var candidates []string
	for _, dir := range b.searchDirs {
		candidate := filepath.Join(dir, path)
		if b.skipFileCheck {
			candidates = append(candidates, candidate)
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			candidates = append(candidates, candidate)
		}
	}
	if len(candidates) == 1 {
		return filepath.Clean(candidates[0])
	}

	if b.resolver != nil {
		stripped := path
		for strings.HasPrefix(stripped, "../") {
			stripped = stripped[3:]
		}
		if found := b.resolver.FindFile(stripped); len(found) == 1 {
			return found[0]
		}
	}
	return path
}
