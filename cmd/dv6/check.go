package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dv6/internal/diag"
	"dv6/internal/diagfmt"
	"dv6/internal/driver"
	"dv6/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.dv6|directory>",
	Short: "Check dictionary sources and report diagnostics",
	Long:  `Check runs the full parse over dictionary sources and reports every error and warning without printing the trees`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("cache", false, "skip unchanged files whose previous run was clean")
	checkCmd.Flags().String("ui", "auto", "progress ui for directory runs (auto|on|off)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "preview fix edits without modifying files")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// checkSettings carries every resolved check flag so the file and directory
// paths read them from one place.
type checkSettings struct {
	format    string
	withNotes bool
	fullPath  bool
	showFixes bool
	preview   bool
	quiet     bool
	timings   bool
	useColor  bool
	opts      driver.Options
}

func (s checkSettings) prettyOpts() diagfmt.PrettyOpts {
	pathMode := diagfmt.PathModeAuto
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return diagfmt.PrettyOpts{
		Color:       s.useColor,
		Context:     2,
		PathMode:    pathMode,
		ShowNotes:   s.withNotes,
		ShowFixes:   s.showFixes,
		ShowPreview: s.preview,
	}
}

func (s checkSettings) jsonOpts() diagfmt.JSONOpts {
	pathMode := diagfmt.PathModeAuto
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     s.withNotes,
		IncludeFixes:     s.showFixes,
		IncludePreviews:  s.preview,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	useColor, err := readUseColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	opts, err := collectOptions(cmd, filePath)
	if err != nil {
		return err
	}

	settings := checkSettings{
		format:    format,
		withNotes: withNotes,
		fullPath:  fullPath,
		showFixes: suggest || preview,
		preview:   preview,
		quiet:     quiet,
		timings:   showTimings,
		useColor:  useColor,
		opts:      opts,
	}

	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	session, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}

	var exitCode int
	var resultErr error
	if !st.IsDir() {
		exitCode, resultErr = checkFile(filePath, settings)
	} else {
		exitCode, resultErr = checkDir(cmd, filePath, settings)
	}

	cleanupTrace()
	if err := session.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
	}

	if resultErr != nil {
		return resultErr
	}
	if exitCode != 0 {
		// Diagnostics are already printed; suppress cobra usage noise.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func checkFile(filePath string, settings checkSettings) (int, error) {
	result, err := driver.ParseFile(filePath, settings.opts)
	if err != nil {
		return 0, fmt.Errorf("check failed: %w", err)
	}

	exit := 0
	if result.Bag.HasErrors() {
		exit = 1
	}

	switch settings.format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, settings.prettyOpts())
	case "short":
		output := diag.FormatGoldenDiagnostics(result.Bag.Items(), result.FileSet, settings.withNotes)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, settings.jsonOpts()); err != nil {
			return 0, fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}

	return exit, nil
}

func checkDir(cmd *cobra.Command, dirPath string, settings checkSettings) (int, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return 0, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return 0, fmt.Errorf("failed to get cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return 0, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return 0, err
	}

	req := pipeline.Request{
		Dir:     dirPath,
		Options: settings.opts,
		Jobs:    jobs,
	}
	if useCache {
		cache, err := driver.OpenCheckCache("dv6")
		if err != nil {
			return 0, fmt.Errorf("failed to open check cache: %w", err)
		}
		req.Cache = cache
	}

	// The progress view owns stdout while it runs, so it stays off for
	// machine-readable formats.
	useTUI := settings.format == "pretty" && !settings.quiet && shouldUseTUI(mode)

	var sum *pipeline.Summary
	if useTUI {
		sum, err = runCheckWithUI(cmd.Context(), "checking "+dirPath, req)
	} else {
		sum, err = pipeline.Check(cmd.Context(), req)
	}
	if err != nil {
		return 0, fmt.Errorf("check failed: %w", err)
	}

	exit := 0
	if sum.Errors > 0 {
		exit = 1
	}

	switch settings.format {
	case "pretty":
		prettyOpts := settings.prettyOpts()
		for _, r := range sum.Reports {
			if r.Err != nil {
				fmt.Fprintf(os.Stdout, "%s: %v\n", r.Path, r.Err)
				continue
			}
			if r.Result != nil && (r.Result.Bag.HasErrors() || r.Result.Bag.HasWarnings()) {
				diagfmt.Pretty(os.Stdout, r.Result.Bag, r.Result.FileSet, prettyOpts)
			}
		}
	case "short":
		for _, r := range sum.Reports {
			if r.Result == nil {
				continue
			}
			output := diag.FormatGoldenDiagnostics(r.Result.Bag.Items(), r.Result.FileSet, settings.withNotes)
			if output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		}
	case "json":
		jsonOpts := settings.jsonOpts()
		output := make(map[string]diagfmt.DiagnosticsOutput, len(sum.Reports))
		for _, r := range sum.Reports {
			if r.Result == nil {
				continue
			}
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Result.Bag, r.Result.FileSet, jsonOpts)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	}

	if !settings.quiet && settings.format != "json" {
		line := fmt.Sprintf("checked %d file(s): %d error(s), %d warning(s)", sum.Files, sum.Errors, sum.Warnings)
		if req.Cache != nil {
			line += fmt.Sprintf(", %d from cache", sum.CacheHits)
		}
		fmt.Fprintln(os.Stdout, line)
	}
	if settings.timings {
		printStageTimings(os.Stdout, sum.Timings)
	}

	return exit, nil
}
