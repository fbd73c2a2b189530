package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orca-ide/outparse/filefind"
	"github.com/orca-ide/outparse/task"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "outparse" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "outparse")
	}

	expectedCommands := []string{"parse", "detect"}
	commandMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		commandMap[cmd.Name()] = true
	}
	for _, expected := range expectedCommands {
		if !commandMap[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestParseLog(t *testing.T) {
	t.Run("gcc log yields tasks and stats", func(t *testing.T) {
		parseOpts.toolchain = "gcc"
		parseOpts.stderrInput = true
		defer resetParseOpts()

		log := "main.cpp:9:15: error: 'std::cout' was not declared in this scope\n" +
			"main.cpp:12:3: warning: unused variable 'x' [-Wunused-variable]\n"

		r, err := parseLog("build.log", log, nil, nil)
		if err != nil {
			t.Fatalf("parseLog() error = %v", err)
		}

		if len(r.Tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(r.Tasks))
		}
		if r.Stats.Errors != 1 || r.Stats.Warnings != 1 {
			t.Errorf("stats = %+v, want 1 error and 1 warning", r.Stats)
		}
		if r.Tasks[0].Line != 9 || r.Tasks[1].Line != 12 {
			t.Errorf("lines = %d and %d, want 9 and 12", r.Tasks[0].Line, r.Tasks[1].Line)
		}
	})

	t.Run("unknown toolchain fails", func(t *testing.T) {
		parseOpts.toolchain = "fortran"
		defer resetParseOpts()

		if _, err := parseLog("x", "y\n", nil, nil); err == nil {
			t.Error("expected an error for an unknown toolchain")
		}
	})

	t.Run("demote errors", func(t *testing.T) {
		parseOpts.toolchain = "gcc"
		parseOpts.stderrInput = true
		parseOpts.demoteErrors = true
		defer resetParseOpts()

		log := "main.cpp:9:15: error: 'std::cout' was not declared in this scope\n"
		r, err := parseLog("build.log", log, nil, nil)
		if err != nil {
			t.Fatalf("parseLog() error = %v", err)
		}

		if len(r.Tasks) != 1 || r.Tasks[0].Type != task.Warning {
			t.Errorf("expected a single demoted warning, got %+v", r.Tasks)
		}
	})

	t.Run("stdout input ignored by stderr-only suite", func(t *testing.T) {
		parseOpts.toolchain = "gcc"
		defer resetParseOpts()

		log := "main.cpp:9:15: error: 'std::cout' was not declared in this scope\n"
		r, err := parseLog("build.log", log, nil, nil)
		if err != nil {
			t.Fatalf("parseLog() error = %v", err)
		}

		if len(r.Tasks) != 0 {
			t.Errorf("expected 0 tasks from stdout, got %d", len(r.Tasks))
		}
	})

	t.Run("file resolver fills in candidates", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		if err := os.MkdirAll(src, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(src, "main.cpp"), []byte("int main() {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		finder := filefind.NewFinder()
		if err := finder.AddTree(dir); err != nil {
			t.Fatal(err)
		}

		parseOpts.toolchain = "gcc"
		parseOpts.stderrInput = true
		defer resetParseOpts()

		log := "main.cpp:9:15: error: 'std::cout' was not declared in this scope\n"
		r, err := parseLog("build.log", log, nil, finder)
		if err != nil {
			t.Fatalf("parseLog() error = %v", err)
		}

		if len(r.Tasks) != 1 {
			t.Fatalf("expected 1 task, got %d", len(r.Tasks))
		}
		if got, want := r.Tasks[0].File, filepath.Join(src, "main.cpp"); got != want {
			t.Errorf("File = %q, want %q", got, want)
		}
	})
}

func resetParseOpts() {
	parseOpts.toolchain = "gcc"
	parseOpts.customFile = ""
	parseOpts.jsonOutput = false
	parseOpts.demoteErrors = false
	parseOpts.stderrInput = false
	parseOpts.searchDirs = nil
	parseOpts.snippets = false
}
