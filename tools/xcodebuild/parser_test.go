package xcodebuild

import (
	"testing"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

const banner = "=== BUILD TARGET MyApp OF PROJECT MyApp WITH THE DEFAULT CONFIGURATION (Debug) ==="

func TestParser_BuildBanner(t *testing.T) {
	p := NewParser()

	if p.HasDetectedRedirection() {
		t.Error("redirection detected before any build banner")
	}
	if res := p.HandleLine(banner, parser.StdOut); res.Status != parser.Done {
		t.Fatalf("banner status = %v, want Done", res.Status)
	}
	if !p.HasDetectedRedirection() {
		t.Error("no redirection reported inside a build")
	}
	if got := p.TakeScheduledTasks(); len(got) != 0 {
		t.Errorf("banner produced tasks: %v", got)
	}

	if res := p.HandleLine("** BUILD SUCCEEDED **", parser.StdOut); res.Status != parser.Done {
		t.Fatalf("success banner status = %v, want Done", res.Status)
	}
	if p.HasDetectedRedirection() {
		t.Error("redirection still reported after the build finished")
	}
}

func TestParser_AggregateBanner(t *testing.T) {
	p := NewParser()
	line := "=== BUILD AGGREGATE TARGET Qt Preprocess OF PROJECT foo WITH THE DEFAULT CONFIGURATION (Debug) ==="
	if res := p.HandleLine(line, parser.StdOut); res.Status != parser.Done {
		t.Errorf("aggregate banner status = %v, want Done", res.Status)
	}
	if p.lastTarget != "Qt Preprocess" || p.lastProject != "foo" {
		t.Errorf("tracked %q/%q, want Qt Preprocess/foo", p.lastTarget, p.lastProject)
	}
}

func TestParser_ReplacingSignature(t *testing.T) {
	p := NewParser()
	p.HandleLine(banner, parser.StdOut)

	res := p.HandleLine("/dist/MyApp.app: replacing existing signature", parser.StdOut)
	if res.Status != parser.Done {
		t.Fatalf("status = %v, want Done", res.Status)
	}
	got := p.TakeScheduledTasks()
	if len(got) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(got))
	}
	tk := got[0].Task
	if tk.Type != task.Warning || tk.Summary != "Replacing signature" {
		t.Errorf("task = %v %q, want Warning %q", tk.Type, tk.Summary, "Replacing signature")
	}
	if tk.File != "/dist/MyApp.app" {
		t.Errorf("File = %q, want /dist/MyApp.app", tk.File)
	}
	if len(res.Links) != 1 {
		t.Errorf("Links = %v, want one file link", res.Links)
	}
}

func TestParser_SignatureOutsideBuildDeclined(t *testing.T) {
	p := NewParser()
	if res := p.HandleLine("/dist/MyApp.app: replacing existing signature", parser.StdOut); res.Status != parser.NotHandled {
		t.Errorf("status = %v, want NotHandled", res.Status)
	}
}

func TestParser_BuildFailed(t *testing.T) {
	p := NewParser()
	p.HandleLine(banner, parser.StdOut)

	if res := p.HandleLine("** BUILD FAILED **", parser.StdErr); res.Status != parser.Done {
		t.Fatalf("status = %v, want Done", res.Status)
	}
	if !p.HasFatalErrors() {
		t.Error("HasFatalErrors() = false after the failure banner")
	}
	got := p.TakeScheduledTasks()
	if len(got) != 1 || got[0].Task.Type != task.Error || got[0].Task.Summary != "Xcodebuild failed." {
		t.Fatalf("scheduled = %v, want one Xcodebuild failed error", got)
	}
	// Phase boundaries are lost after a failure; stdout stays redirected.
	if !p.HasDetectedRedirection() {
		t.Error("no redirection reported after a failure banner")
	}
}

func TestParser_StderrChatter(t *testing.T) {
	p := NewParser()

	// Outside a build stderr lines belong to other parsers.
	if res := p.HandleLine("ld: library not found", parser.StdErr); res.Status != parser.NotHandled {
		t.Errorf("outside build: status = %v, want NotHandled", res.Status)
	}

	p.HandleLine(banner, parser.StdOut)
	if res := p.HandleLine("note: build preparation", parser.StdErr); res.Status != parser.Done {
		t.Errorf("inside build: status = %v, want Done", res.Status)
	}
	if got := p.TakeScheduledTasks(); len(got) != 0 {
		t.Errorf("chatter produced tasks: %v", got)
	}
}

func TestParser_PlainStdoutDeclined(t *testing.T) {
	p := NewParser()
	p.HandleLine(banner, parser.StdOut)
	if res := p.HandleLine("CompileC main.o main.cpp normal x86_64", parser.StdOut); res.Status != parser.NotHandled {
		t.Errorf("status = %v, want NotHandled", res.Status)
	}
}
