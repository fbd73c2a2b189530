package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orca-ide/outparse/dispatch"
	"github.com/orca-ide/outparse/filefind"
	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools"
	"github.com/orca-ide/outparse/tools/custom"
	"github.com/orca-ide/outparse/tools/parser"
)

var parseOpts struct {
	toolchain    string
	customFile   string
	jsonOutput   bool
	demoteErrors bool
	stderrInput  bool
	searchDirs   []string
	snippets     bool
}

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse build logs into errors and warnings",
	Long: `Parse runs the selected toolchain's parser suite over each named log
file, or over stdin when no files are given. Files parse concurrently.

By default the input counts as the build's stdout stream; pass --stderr
for logs captured from stderr, where most compilers write diagnostics.
A log produced with 2>&1 contains both streams and should use --stderr.`,
	RunE: runParse,
}

func init() {
	f := parseCmd.Flags()
	f.StringVarP(&parseOpts.toolchain, "toolchain", "t", "gcc",
		"toolchain whose parsers to run (gcc, clang, msvc, clang-cl, icc, xcodebuild)")
	f.StringVar(&parseOpts.customFile, "custom", "", "custom parser settings file (YAML or TOML)")
	f.BoolVar(&parseOpts.jsonOutput, "json", false, "emit results as JSON")
	f.BoolVar(&parseOpts.demoteErrors, "demote-errors", false, "report errors as warnings")
	f.BoolVar(&parseOpts.stderrInput, "stderr", false, "treat the input as the stderr stream")
	f.StringArrayVar(&parseOpts.searchDirs, "search-dir", nil,
		"directory to search when resolving relative paths (repeatable)")
	f.BoolVar(&parseOpts.snippets, "snippets", false, "attach source context to each task")
}

// fileReport is the parse result for one input.
type fileReport struct {
	File        string      `json:"file"`
	Tasks       []task.Task `json:"tasks"`
	Stats       task.Stats  `json:"stats"`
	FatalErrors bool        `json:"fatalErrors"`
}

func runParse(cmd *cobra.Command, args []string) error {
	settings, err := loadCustomSettings()
	if err != nil {
		return err
	}

	// Validate the toolchain up front so a typo fails before any file is
	// read.
	if _, err := tools.SuiteFor(tools.Toolchain(parseOpts.toolchain), settings); err != nil {
		return err
	}

	finder, err := buildFinder(parseOpts.searchDirs)
	if err != nil {
		return err
	}

	inputs := args
	fromStdin := len(inputs) == 0
	if fromStdin {
		inputs = []string{"<stdin>"}
	}

	reports := make([]fileReport, len(inputs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range inputs {
		i, name := i, name
		g.Go(func() error {
			var content []byte
			var err error
			if fromStdin {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(name)
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			r, err := parseLog(name, string(content), settings, finder)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if parseOpts.snippets {
		for i := range reports {
			task.AttachSnippets(reports[i].Tasks, task.DefaultContextLines)
		}
	}

	if parseOpts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printReport(cmd.OutOrStdout(), r, len(inputs) > 1)
		}
	}

	errorCount := 0
	for _, r := range reports {
		errorCount += r.Stats.Errors
	}
	if errorCount > 0 {
		return fmt.Errorf("%d error(s) found", errorCount)
	}
	return nil
}

func loadCustomSettings() ([]custom.Settings, error) {
	if parseOpts.customFile == "" {
		return nil, nil
	}
	return custom.Load(parseOpts.customFile)
}

// buildFinder indexes the search directories once so every concurrent
// dispatcher shares one read-only file index.
func buildFinder(dirs []string) (*filefind.Finder, error) {
	if len(dirs) == 0 {
		return nil, nil
	}
	finder := filefind.NewFinder()
	for _, dir := range dirs {
		if err := finder.AddTree(dir); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", dir, err)
		}
	}
	return finder, nil
}

func parseLog(name, content string, settings []custom.Settings, finder *filefind.Finder) (fileReport, error) {
	suite, err := tools.SuiteFor(tools.Toolchain(parseOpts.toolchain), settings)
	if err != nil {
		return fileReport{}, err
	}

	var tasks []task.Task
	d := dispatch.New(suite...)
	d.SetTaskSink(func(s parser.Scheduled) { tasks = append(tasks, s.Task) })
	d.SetDemoteErrorsToWarnings(parseOpts.demoteErrors)
	if finder != nil {
		d.SetFileResolver(finder)
	}
	for _, dir := range parseOpts.searchDirs {
		d.AddSearchDir(dir)
	}

	ch := parser.StdOut
	if parseOpts.stderrInput {
		ch = parser.StdErr
	}
	d.Append(content, ch)
	d.EndOfOutput()

	if tasks == nil {
		tasks = []task.Task{}
	}
	return fileReport{
		File:        name,
		Tasks:       tasks,
		Stats:       task.CountByType(tasks),
		FatalErrors: d.HasFatalErrors(),
	}, nil
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold).Sprint("error:")
	warningLabel = color.New(color.FgYellow, color.Bold).Sprint("warning:")
	infoLabel    = color.New(color.FgCyan).Sprint("info:")
	headingStyle = color.New(color.Underline)
	mutedStyle   = color.New(color.Faint)
)

func printReport(w io.Writer, r fileReport, showName bool) {
	if showName {
		headingStyle.Fprintf(w, "%s\n", r.File)
	}
	for _, t := range r.Tasks {
		printTask(w, t)
	}
	if r.Stats.Total > 0 || showName {
		mutedStyle.Fprintf(w, "%d error(s), %d warning(s)\n",
			r.Stats.Errors, r.Stats.Warnings)
	}
}

func printTask(w io.Writer, t task.Task) {
	label := infoLabel
	switch t.Type {
	case task.Error:
		label = errorLabel
	case task.Warning:
		label = warningLabel
	}

	loc := t.File
	if loc != "" && t.Line > 0 {
		loc += ":" + strconv.Itoa(t.Line)
		if t.Column > 0 {
			loc += ":" + strconv.Itoa(t.Column)
		}
	}
	if loc != "" {
		fmt.Fprintf(w, "%s: %s %s\n", loc, label, t.Summary)
	} else {
		fmt.Fprintf(w, "%s %s\n", label, t.Summary)
	}
	if len(t.Details) > 1 {
		for _, line := range t.Details {
			mutedStyle.Fprintf(w, "    %s\n", line)
		}
	}
}
