package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dv6/internal/diagfmt"
	"dv6/internal/driver"
	"dv6/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.dv6|directory>",
	Short: "Parse dictionary sources and output the document trees",
	Long:  `Parse analyzes a dictionary file, or every *.dv6 file in a directory, and outputs the resulting document trees`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|xml)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "xml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts, err := collectOptions(cmd, filePath)
	if err != nil {
		return err
	}

	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanupTrace()

	if !st.IsDir() {
		return parseFile(cmd, filePath, format, opts)
	}
	return parseDir(cmd, filePath, format, quiet, opts)
}

func parseFile(cmd *cobra.Command, filePath, format string, opts driver.Options) error {
	result, err := driver.ParseFile(filePath, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// The json shape carries the diagnostics itself; the other formats get
	// them on stderr.
	if format != "json" && (result.Bag.HasErrors() || result.Bag.HasWarnings()) {
		useColor, err := readUseColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor,
			Context: 2,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(os.Stdout, result.Doc)
	case "json":
		return diagfmt.FormatResultJSON(os.Stdout, result.Doc, result.Bag, result.File, result.FileSet,
			diagfmt.JSONOpts{IncludePositions: true})
	case "xml":
		return diagfmt.FormatTreeXML(os.Stdout, result.Doc)
	}
	return nil
}

func parseDir(cmd *cobra.Command, dirPath, format string, quiet bool, opts driver.Options) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	fs, results, err := driver.ParseDir(cmd.Context(), dirPath, opts, jobs)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if format != "json" {
		useColor, err := readUseColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		prettyOpts := diagfmt.PrettyOpts{Color: useColor, Context: 2}
		for _, r := range results {
			if r.Bag.HasErrors() || r.Bag.HasWarnings() {
				diagfmt.Pretty(os.Stderr, r.Bag, fs, prettyOpts)
			}
		}
	}

	switch format {
	case "pretty", "xml":
		for idx, r := range results {
			if !quiet {
				if _, err := fmt.Fprintf(os.Stdout, "== %s ==\n", dirDisplayPath(r, fs)); err != nil {
					return err
				}
			}
			if r.Doc != nil {
				var fmtErr error
				if format == "pretty" {
					fmtErr = diagfmt.FormatTreePretty(os.Stdout, r.Doc)
				} else {
					fmtErr = diagfmt.FormatTreeXML(os.Stdout, r.Doc)
				}
				if fmtErr != nil {
					return fmtErr
				}
			}
			if !quiet && idx < len(results)-1 {
				if _, err := fmt.Fprintln(os.Stdout); err != nil {
					return err
				}
			}
		}
	case "json":
		output := make(map[string]*diagfmt.ResultJSON, len(results))
		for _, r := range results {
			if r.Doc == nil {
				output[dirDisplayPath(r, fs)] = nil
				continue
			}
			data := diagfmt.BuildResultJSON(r.Doc, r.Bag, r.File, fs, diagfmt.JSONOpts{IncludePositions: true})
			output[dirDisplayPath(r, fs)] = &data
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return err
		}
	}

	return nil
}

func dirDisplayPath(r driver.DirResult, fs *source.FileSet) string {
	if r.File != nil {
		return r.File.FormatPath("auto", fs.BaseDir())
	}
	return r.Path
}
