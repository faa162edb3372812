package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dv6/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the check cache",
	Long:  "Remove every cached check result so the next run reparses everything.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenCheckCache("dv6")
	if err != nil {
		return fmt.Errorf("failed to open check cache: %w", err)
	}
	if err := cache.Drop(); err != nil {
		return fmt.Errorf("failed to remove check cache: %w", err)
	}
	fmt.Fprintln(os.Stdout, "check cache removed")
	return nil
}
