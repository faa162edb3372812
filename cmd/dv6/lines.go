package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dv6/internal/diagfmt"
	"dv6/internal/driver"
)

var linesCmd = &cobra.Command{
	Use:   "lines [flags] <file.dv6>",
	Short: "Split a dictionary file into logical lines",
	Long:  `Lines shows the logical-line view of a dictionary file: indent levels counted, continuation runs merged`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLines,
}

func init() {
	linesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runLines(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	opts, err := collectOptions(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.SplitFile(filePath, opts)
	if err != nil {
		return fmt.Errorf("splitting failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
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
		return diagfmt.FormatLinesPretty(os.Stdout, result.Lines, result.FileSet)
	case "json":
		return diagfmt.FormatLinesJSON(os.Stdout, result.Lines)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
