package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dv6/internal/prof"
)

// setupProfiling reads the persistent profiling flags and starts the
// requested profilers. The returned session is nil when nothing was
// requested; Stop on a nil session is a no-op.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	root := cmd.Root()

	cpuPath, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memPath, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	return prof.Start(prof.Options{
		CPUPath:   cpuPath,
		MemPath:   memPath,
		TracePath: tracePath,
	})
}
