package main

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "outparse",
	Short: "Turn compiler and linker output into structured diagnostics",
	Long: `Outparse reads the raw output of a build and extracts errors, warnings,
and their source locations using the same parsers an IDE issues pane runs:
GCC, Clang, MSVC, clang-cl, ICC, xcodebuild, and the ld and lld linkers,
plus user-defined patterns from a settings file.

Pipe a build log in or name the log files:

  make 2>&1 | outparse parse --stderr
  outparse parse --toolchain msvc build.log`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(detectCmd)
}
