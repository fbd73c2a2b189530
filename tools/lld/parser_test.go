package lld

import (
	"testing"

	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools/parser"
)

func runStderr(t *testing.T, p *Parser, lines ...string) []parser.Scheduled {
	t.Helper()
	var out []parser.Scheduled
	for _, line := range lines {
		p.HandleLine(line, parser.StdErr)
		out = append(out, p.TakeScheduledTasks()...)
	}
	p.Flush()
	return append(out, p.TakeScheduledTasks()...)
}

func TestParser_StdOutDeclined(t *testing.T) {
	p := NewParser()
	if res := p.HandleLine("ld.lld: error: undefined symbol: f()", parser.StdOut); res.Status != parser.NotHandled {
		t.Errorf("stdout status = %v, want NotHandled", res.Status)
	}
}

func TestParser_UndefinedSymbolReport(t *testing.T) {
	got := runStderr(t, NewParser(),
		"ld.lld: error: undefined symbol: func()",
		">>> referenced by main.cpp:10",
		">>>               /tmp/ccFhJ8xv.o:(main)",
	)

	if len(got) != 1 {
		t.Fatalf("scheduled %d tasks, want one accumulated report", len(got))
	}
	tk := got[0].Task
	if tk.Type != task.Error {
		t.Errorf("Type = %v, want Error", tk.Type)
	}
	if tk.Summary != "undefined symbol: func()" {
		t.Errorf("Summary = %q", tk.Summary)
	}
	if tk.File != "main.cpp" || tk.Line != 10 {
		t.Errorf("anchor = %s:%d, want main.cpp:10", tk.File, tk.Line)
	}
	if len(tk.Details) != 3 {
		t.Errorf("Details = %v, want all three raw lines", tk.Details)
	}
	if got[0].OutputLines != 3 {
		t.Errorf("OutputLines = %d, want 3", got[0].OutputLines)
	}
}

func TestParser_FirstReferenceAnchors(t *testing.T) {
	got := runStderr(t, NewParser(),
		"ld.lld: error: duplicate symbol: answer",
		">>> defined at foo.cpp:2",
		">>> defined at bar.cpp:7",
	)

	if len(got) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(got))
	}
	if got[0].Task.File != "foo.cpp" || got[0].Task.Line != 2 {
		t.Errorf("anchor = %s:%d, want the first location foo.cpp:2",
			got[0].Task.File, got[0].Task.Line)
	}
}

func TestParser_Flavors(t *testing.T) {
	tests := []struct {
		line     string
		wantType task.Type
		wantSum  string
	}{
		{"ld64.lld: warning: directory not found for option '-L/x'",
			task.Warning, "directory not found for option '-L/x'"},
		{"lld-link: error: could not open 'foo.obj': no such file or directory",
			task.Error, "could not open 'foo.obj': no such file or directory"},
		{"wasm-ld: error: unknown file type: foo.txt",
			task.Error, "unknown file type: foo.txt"},
		{"ld.lld.exe: error: unable to find library -lm",
			task.Error, "unable to find library -lm"},
	}

	for _, tt := range tests {
		got := runStderr(t, NewParser(), tt.line)
		if len(got) != 1 {
			t.Fatalf("%q scheduled %d tasks, want 1", tt.line, len(got))
		}
		if got[0].Task.Type != tt.wantType || got[0].Task.Summary != tt.wantSum {
			t.Errorf("%q = %v %q, want %v %q",
				tt.line, got[0].Task.Type, got[0].Task.Summary, tt.wantType, tt.wantSum)
		}
	}
}

func TestParser_MessageWithoutSeverityIsError(t *testing.T) {
	got := runStderr(t, NewParser(), "ld.lld: cannot open output file a.out")

	if len(got) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(got))
	}
	if got[0].Task.Type != task.Error {
		t.Errorf("Type = %v, want Error", got[0].Task.Type)
	}
}

func TestParser_DanglingContinuationDeclined(t *testing.T) {
	p := NewParser()
	if res := p.HandleLine(">>> referenced by main.cpp:10", parser.StdErr); res.Status != parser.NotHandled {
		t.Errorf("status = %v, want NotHandled", res.Status)
	}
}

func TestParser_UnrelatedLineFlushes(t *testing.T) {
	p := NewParser()
	p.HandleLine("ld.lld: error: undefined symbol: f()", parser.StdErr)

	if res := p.HandleLine("make: *** [a.out] Error 1", parser.StdErr); res.Status != parser.NotHandled {
		t.Errorf("status = %v, want NotHandled", res.Status)
	}
	if got := p.TakeScheduledTasks(); len(got) != 1 {
		t.Errorf("expected the pending report to flush, got %v", got)
	}
}
