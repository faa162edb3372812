package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dv6/internal/driver"
)

// collectOptions merges persistent flags with an optional dv6.toml found
// from the target path upwards. An explicitly set flag always wins over
// the manifest.
func collectOptions(cmd *cobra.Command, targetPath string) (driver.Options, error) {
	opts := driver.Options{}

	startDir := targetPath
	if info, err := os.Stat(targetPath); err == nil && !info.IsDir() {
		startDir = filepath.Dir(targetPath)
	}

	manifest, ok, err := loadManifest(startDir)
	if err != nil {
		return opts, err
	}
	if ok {
		opts.KnownFlags = manifest.Config.Parse.KnownFlags
		opts.FlagWarning = manifest.flagWarning()
		opts.MaxDiagnostics = manifest.Config.Parse.MaxDiagnostics
	}

	flags := cmd.Root().PersistentFlags()
	if opts.MaxDiagnostics == 0 || flags.Changed("max-diagnostics") {
		v, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		opts.MaxDiagnostics = v
	}

	return opts, nil
}

func readUseColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f)), nil
}
