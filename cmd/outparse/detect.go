package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orca-ide/outparse/tools"
)

var detectCmd = &cobra.Command{
	Use:   "detect <command line>",
	Short: "Guess the toolchain from a compile or link command",
	Long: `Detect inspects a command line and prints the toolchain whose parser
suite fits it, e.g.:

  outparse detect "x86_64-linux-gnu-g++ -c main.cpp"   # gcc
  outparse detect "cl.exe /nologo main.cpp"            # msvc`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmdline := strings.Join(args, " ")
		tc, ok := tools.DetectToolchain(cmdline)
		if !ok {
			return fmt.Errorf("no known toolchain in %q", cmdline)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tc)
		return nil
	},
}
