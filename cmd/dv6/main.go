package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dv6/internal/driver"
	"dv6/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dv6",
	Short: "DV6 dictionary parser and checker",
	Long:  `dv6 reads DV6 dictionary sources, builds their document trees and reports every problem it finds along the way`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", driver.DefaultMaxDiagnostics, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the given path")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the given path")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to the given path")
	rootCmd.PersistentFlags().String("trace", "", "write a trace of the run to the given path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "stage", "trace verbosity (off|run|stage|file)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
