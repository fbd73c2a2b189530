package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orca-ide/outparse/task"
)

func TestBase_ScheduleTask(t *testing.T) {
	t.Run("drains in order", func(t *testing.T) {
		var b Base
		b.ScheduleTask(task.CompileTask(task.Error, "first", "", -1), 1, 0)
		b.ScheduleTask(task.CompileTask(task.Warning, "second", "", -1), 2, 1)

		got := b.TakeScheduledTasks()
		if len(got) != 2 {
			t.Fatalf("expected 2 scheduled tasks, got %d", len(got))
		}
		if got[0].Task.Summary != "first" || got[1].Task.Summary != "second" {
			t.Errorf("order = %q, %q", got[0].Task.Summary, got[1].Task.Summary)
		}
		if got[1].OutputLines != 2 || got[1].SkippedLines != 1 {
			t.Errorf("line counts = %d/%d, want 2/1", got[1].OutputLines, got[1].SkippedLines)
		}

		if rest := b.TakeScheduledTasks(); len(rest) != 0 {
			t.Errorf("second drain returned %d tasks", len(rest))
		}
	})

	t.Run("demotes errors to warnings", func(t *testing.T) {
		var b Base
		b.SetDemoteErrorsToWarnings(true)
		b.ScheduleTask(task.CompileTask(task.Error, "bad", "", -1), 1, 0)
		b.ScheduleTask(task.CompileTask(task.Warning, "meh", "", -1), 1, 0)

		got := b.TakeScheduledTasks()
		if got[0].Task.Type != task.Warning {
			t.Errorf("demoted type = %v, want Warning", got[0].Task.Type)
		}
		if got[1].Task.Type != task.Warning {
			t.Errorf("warning type = %v, want Warning unchanged", got[1].Task.Type)
		}
	})

	t.Run("panics beyond two pending", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic with three pending tasks")
			}
		}()
		var b Base
		for i := 0; i < 3; i++ {
			b.ScheduleTask(task.CompileTask(task.Error, "x", "", -1), 1, 0)
		}
	})
}

func TestBase_SearchDirs(t *testing.T) {
	var b Base
	b.AddSearchDir("/a")
	b.AddSearchDir("/b")
	b.DropSearchDir("/a")
	dirs := b.SearchDirs()
	if len(dirs) != 1 || dirs[0] != "/b" {
		t.Errorf("SearchDirs() = %v, want [/b]", dirs)
	}

	b.DropSearchDir("/missing") // no-op
	if len(b.SearchDirs()) != 1 {
		t.Errorf("dropping a missing dir changed the list: %v", b.SearchDirs())
	}
}

func TestBase_AbsoluteFilePath(t *testing.T) {
	t.Run("absolute path is cleaned", func(t *testing.T) {
		var b Base
		if got := b.AbsoluteFilePath("/a/b/../c.cpp"); got != filepath.Clean("/a/b/../c.cpp") {
			t.Errorf("AbsoluteFilePath() = %q", got)
		}
	})

	t.Run("empty path stays empty", func(t *testing.T) {
		var b Base
		if got := b.AbsoluteFilePath(""); got != "" {
			t.Errorf("AbsoluteFilePath(\"\") = %q", got)
		}
	})

	t.Run("unique search dir hit wins", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "main.cpp"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		var b Base
		b.AddSearchDir(dir)
		b.AddSearchDir(t.TempDir()) // empty, no hit
		want := filepath.Join(dir, "main.cpp")
		if got := b.AbsoluteFilePath("main.cpp"); got != want {
			t.Errorf("AbsoluteFilePath() = %q, want %q", got, want)
		}
	})

	t.Run("ambiguous search dir hits fall through", func(t *testing.T) {
		dirA, dirB := t.TempDir(), t.TempDir()
		for _, d := range []string{dirA, dirB} {
			if err := os.WriteFile(filepath.Join(d, "main.cpp"), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		var b Base
		b.AddSearchDir(dirA)
		b.AddSearchDir(dirB)
		if got := b.AbsoluteFilePath("main.cpp"); got != "main.cpp" {
			t.Errorf("AbsoluteFilePath() = %q, want the path kept as given", got)
		}
	})

	t.Run("skip file check trusts the first search dir", func(t *testing.T) {
		var b Base
		b.SkipFileExistsCheck()
		b.AddSearchDir("/proj")
		want := filepath.Join("/proj", "main.cpp")
		if got := b.AbsoluteFilePath("main.cpp"); got != want {
			t.Errorf("AbsoluteFilePath() = %q, want %q", got, want)
		}
	})

	t.Run("resolver unique hit wins after stripping parent refs", func(t *testing.T) {
		var b Base
		b.SetFileResolver(queryRecorder{hit: "/proj/src/main.cpp", queries: &[]string{}})
		if got := b.AbsoluteFilePath("../../src/main.cpp"); got != "/proj/src/main.cpp" {
			t.Errorf("AbsoluteFilePath() = %q", got)
		}
	})

	t.Run("resolver query has parent refs stripped", func(t *testing.T) {
		queries := []string{}
		var b Base
		b.SetFileResolver(queryRecorder{hit: "/proj/src/main.cpp", queries: &queries})
		b.AbsoluteFilePath("../../src/main.cpp")
		if len(queries) != 1 || queries[0] != "src/main.cpp" {
			t.Errorf("resolver queries = %v, want [src/main.cpp]", queries)
		}
	})
}

// queryRecorder resolves every query to one fixed hit and records what was
// asked.
type queryRecorder struct {
	hit     string
	queries *[]string
}

func (r queryRecorder) FindFile(path string) []string {
	*r.queries = append(*r.queries, path)
	return []string{r.hit}
}

// fixedDetector reports a constant redirection state.
type fixedDetector struct{ on bool }

func (d fixedDetector) HasDetectedRedirection() bool { return d.on }

func TestBase_Redirection(t *testing.T) {
	var b Base
	if b.NeedsRedirection() {
		t.Error("NeedsRedirection() = true without a detector")
	}
	if b.HasDetectedRedirection() {
		t.Error("HasDetectedRedirection() = true on Base")
	}

	b.SetRedirectionDetector(fixedDetector{on: true})
	if !b.NeedsRedirection() {
		t.Error("NeedsRedirection() = false with an active detector")
	}

	b.SetRedirectionDetector(fixedDetector{on: false})
	if b.NeedsRedirection() {
		t.Error("NeedsRedirection() = true with an idle detector")
	}
}
