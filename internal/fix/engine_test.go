package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dv6/internal/diag"
	"dv6/internal/driver"
	"dv6/internal/source"
)

// brokenEntry carries two fixable mistakes: a trailing slash on dir and a
// continuation indented one level too deep.
const brokenEntry = "#点\n\tdir:/食/\n\tspell:en:one \\\n\t\ttwo\n"

const fixedEntry = "#点\n\tdir:/食\n\tspell:en:one \\\n\ttwo\n"

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entry.dv6")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestGatherCandidatesSkipsEmptyFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("entry.dv6", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.PropDirShape,
		Message: "dir must start with / and must not end with /",
		Primary: span,
		Fixes: []diag.Fix{
			{Title: "empty fix"},
			{Title: "real fix", Edits: []diag.FixEdit{{Span: span, NewText: "x"}}},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].fix.Title != "real fix" {
		t.Fatalf("expected the real fix to survive, got %q", candidates[0].fix.Title)
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	if skips[0].Reason != "fix has no edits" {
		t.Fatalf("unexpected skip reason %q", skips[0].Reason)
	}
}

func TestSpansConflict(t *testing.T) {
	mk := func(start, end uint32) diag.FixEdit {
		return diag.FixEdit{Span: source.Span{Start: start, End: end}}
	}
	cases := []struct {
		name string
		a, b diag.FixEdit
		want bool
	}{
		{"disjoint", mk(0, 2), mk(2, 4), false},
		{"overlap", mk(0, 3), mk(2, 4), true},
		{"nested", mk(0, 10), mk(3, 5), true},
		{"two insertions at same point", mk(2, 2), mk(2, 2), false},
		{"insertion inside span", mk(3, 3), mk(2, 5), true},
		{"insertion at span start", mk(2, 2), mk(2, 5), true},
		{"insertion at span end", mk(5, 5), mk(2, 5), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := spansConflict(tc.a, tc.b); got != tc.want {
				t.Fatalf("spansConflict = %v, want %v", got, tc.want)
			}
			if got := spansConflict(tc.b, tc.a); got != tc.want {
				t.Fatalf("spansConflict reversed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyAllRewritesFile(t *testing.T) {
	path := writeTemp(t, brokenEntry)

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected parse errors before fixing")
	}

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %d: %+v", len(result.Applied), result.Applied)
	}
	if result.Applied[0].Title != "drop the trailing slash" {
		t.Fatalf("expected the dir fix first, got %q", result.Applied[0].Title)
	}
	if result.Applied[1].Title != "align continuation indent" {
		t.Fatalf("expected the indent fix second, got %q", result.Applied[1].Title)
	}
	if len(result.FileChanges) != 1 {
		t.Fatalf("expected 1 changed file, got %d", len(result.FileChanges))
	}
	change := result.FileChanges[0]
	if change.EditCount != 2 {
		t.Fatalf("expected 2 edits in the file, got %d", change.EditCount)
	}
	if !change.Written {
		t.Fatal("expected the change to be written")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != fixedEntry {
		t.Fatalf("file after fixing = %q, want %q", got, fixedEntry)
	}

	reparsed, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if reparsed.Bag.Len() != 0 {
		t.Fatalf("expected a clean reparse, got %d diagnostics", reparsed.Bag.Len())
	}
}

func TestApplyOnceAppliesFirstFixOnly(t *testing.T) {
	path := writeTemp(t, brokenEntry)

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("expected 1 applied fix, got %d", len(result.Applied))
	}
	if result.Applied[0].Title != "drop the trailing slash" {
		t.Fatalf("expected the dir fix, got %q", result.Applied[0].Title)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "#点\n\tdir:/食\n\tspell:en:one \\\n\t\ttwo\n"
	if string(got) != want {
		t.Fatalf("file after one fix = %q, want %q", got, want)
	}
}

func TestApplyDryRunLeavesFileUntouched(t *testing.T) {
	path := writeTemp(t, brokenEntry)

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %d", len(result.Applied))
	}
	if len(result.FileChanges) != 1 || result.FileChanges[0].Written {
		t.Fatalf("expected one unwritten change, got %+v", result.FileChanges)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != brokenEntry {
		t.Fatal("dry run must not modify the file")
	}
}

func TestApplySkipsConflictingFix(t *testing.T) {
	path := writeTemp(t, "#語\n")

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	span := source.Span{File: id, Start: 0, End: 1}

	mkDiag := func(title string) diag.Diagnostic {
		return diag.Diagnostic{
			Code:    diag.WordEmpty,
			Message: "test",
			Primary: span,
			Fixes: []diag.Fix{{
				Title: title,
				Edits: []diag.FixEdit{{Span: span, NewText: "##"}},
			}},
		}
	}

	result, err := Apply(fs, []diag.Diagnostic{mkDiag("first"), mkDiag("second")}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 1 || result.Applied[0].Title != "first" {
		t.Fatalf("expected only the first fix to apply, got %+v", result.Applied)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(result.Skipped))
	}
	if result.Skipped[0].Title != "second" {
		t.Fatalf("expected the second fix skipped, got %q", result.Skipped[0].Title)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("virtual.dv6", []byte("#語\n"))
	span := source.Span{File: id, Start: 0, End: 1}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.WordEmpty,
		Message: "test",
		Primary: span,
		Fixes: []diag.Fix{{
			Title: "rewrite header",
			Edits: []diag.FixEdit{{Span: span, NewText: "##"}},
		}},
	}}

	result, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("expected a virtual-file skip, got %+v", result.Skipped)
	}
}

func TestApplyWithoutFixesReturnsErrNoFixes(t *testing.T) {
	path := writeTemp(t, "#語\n\tyomi:かたり\n")

	res, err := driver.ParseFile(path, driver.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("expected a clean parse, got %d diagnostics", res.Bag.Len())
	}

	if _, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}
