package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dv6/internal/diag"
	"dv6/internal/driver"
	"dv6/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.dv6|directory>",
	Short: "Apply available fixes to dictionary sources",
	Long:  "Fix runs the parse, surfaces the mechanical corrections diagnostics carry, and applies them according to the chosen strategy.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all available fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if applyAll {
		mode = fix.ApplyModeAll
	}
	applyOpts := fix.ApplyOptions{Mode: mode, DryRun: dryRun}

	opts, err := collectOptions(cmd, targetPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanupTrace()

	if !info.IsDir() {
		return runFixFile(targetPath, opts, applyOpts)
	}
	return runFixDir(cmd.Context(), targetPath, opts, applyOpts)
}

func runFixFile(path string, opts driver.Options, applyOpts fix.ApplyOptions) error {
	result, err := driver.ParseFile(path, opts)
	if err != nil {
		return fmt.Errorf("fix: parse failed: %w", err)
	}
	result.Bag.Sort()
	res, applyErr := fix.Apply(result.FileSet, result.Bag.Items(), applyOpts)
	return handleApplyResult(res, applyErr)
}

func runFixDir(ctx context.Context, path string, opts driver.Options, applyOpts fix.ApplyOptions) error {
	fs, results, err := driver.ParseDir(ctx, path, opts, 0)
	if err != nil {
		return fmt.Errorf("fix: parse dir failed: %w", err)
	}

	allDiagnostics := make([]diag.Diagnostic, 0)
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		r.Bag.Sort()
		allDiagnostics = append(allDiagnostics, r.Bag.Items()...)
	}

	res, applyErr := fix.Apply(fs, allDiagnostics, applyOpts)
	return handleApplyResult(res, applyErr)
}

func handleApplyResult(res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.Path
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(os.Stdout, "  %s [%s] at %s (%d edit(s))\n",
				item.Title, item.Code.ID(), location, item.EditCount)
		}
	}

	if len(res.FileChanges) > 0 {
		header := "Updated files:"
		if !res.FileChanges[0].Written {
			header = "Would update files:"
		}
		fmt.Fprintln(os.Stdout, header)
		for _, change := range res.FileChanges {
			fmt.Fprintf(os.Stdout, "  %s (%d edit(s))\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(os.Stdout, "Skipped fixes:")
		for _, skip := range res.Skipped {
			if skip.Title != "" {
				fmt.Fprintf(os.Stdout, "  %s: %s\n", skip.Title, skip.Reason)
			} else {
				fmt.Fprintf(os.Stdout, "  %s\n", skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(os.Stdout, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}

	return nil
}
