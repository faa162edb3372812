package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"dv6/internal/ast"
	"dv6/internal/diagfmt"
	"dv6/internal/driver"
)

var wordsCmd = &cobra.Command{
	Use:   "words [flags] <file.dv6|directory>",
	Short: "List the words a dictionary defines",
	Long:  `Words lists every entry title, with its reading when one is recorded`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWords,
}

func init() {
	wordsCmd.Flags().String("sort", "source", "word order (source|title|yomi)")
	wordsCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

// wordEntry is one listed word: its title and first recorded reading.
type wordEntry struct {
	Title string
	Yomi  string
}

func runWords(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	sortMode, err := cmd.Flags().GetString("sort")
	if err != nil {
		return fmt.Errorf("failed to get sort flag: %w", err)
	}
	switch sortMode {
	case "source", "title", "yomi":
	default:
		return fmt.Errorf("unknown sort order: %s", sortMode)
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

	var entries []wordEntry
	if !st.IsDir() {
		result, err := driver.ParseFile(filePath, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
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
		entries = collectWords(result.Doc)
	} else {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		fs, results, err := driver.ParseDir(cmd.Context(), filePath, opts, jobs)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		useColor, err := readUseColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		prettyOpts := diagfmt.PrettyOpts{Color: useColor, Context: 2}
		for _, r := range results {
			if r.Bag.HasErrors() || r.Bag.HasWarnings() {
				diagfmt.Pretty(os.Stderr, r.Bag, fs, prettyOpts)
			}
			if r.Doc != nil {
				entries = append(entries, collectWords(r.Doc)...)
			}
		}
	}

	sortWords(entries, sortMode)

	for _, e := range entries {
		if e.Yomi == "" {
			fmt.Fprintln(os.Stdout, e.Title)
			continue
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", e.Title, e.Yomi)
	}
	return nil
}

func collectWords(doc *ast.Document) []wordEntry {
	entries := make([]wordEntry, 0, len(doc.Words))
	for _, w := range doc.Words {
		e := wordEntry{}
		if name := w.Find(ast.NameName); name != nil {
			e.Title = name.TextContent()
		}
		if props := w.Find(ast.NameProperties); props != nil {
			if yomi := props.Find(ast.NameYomi); yomi != nil {
				e.Yomi = yomi.TextContent()
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// sortWords orders entries in place. Titles are usually kanji and readings
// kana, so both collated orders use the Japanese tailoring. Entries without
// a reading fall back to their title under yomi order.
func sortWords(entries []wordEntry, mode string) {
	if mode == "source" {
		return
	}
	c := collate.New(language.Japanese)
	key := func(e wordEntry) string {
		if mode == "yomi" && e.Yomi != "" {
			return e.Yomi
		}
		return e.Title
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return c.CompareString(key(entries[i]), key(entries[j])) < 0
	})
}
