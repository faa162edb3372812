package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"dv6/internal/driver"
	"dv6/internal/parser"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "dv6.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func newTestRoot() *cobra.Command {
	cmd := &cobra.Command{Use: "dv6"}
	cmd.PersistentFlags().Int("max-diagnostics", driver.DefaultMaxDiagnostics, "")
	return cmd
}

func TestFindDV6TomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[dictionary]\nname = \"test\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := findDV6Toml(nested)
	if err != nil {
		t.Fatalf("findDV6Toml: %v", err)
	}
	if !ok {
		t.Fatal("expected to find the manifest")
	}
	if want := filepath.Join(root, "dv6.toml"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
}

func TestLoadManifestReadsParseSection(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[dictionary]
name = "house style"

[parse]
known_flags = ["SPL", "NOVEL"]
flag_warning = "unknown"
max_diagnostics = 25
`)

	m, ok, err := loadManifest(dir)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if !ok {
		t.Fatal("expected the manifest to load")
	}
	if m.Config.Dictionary.Name != "house style" {
		t.Errorf("name = %q", m.Config.Dictionary.Name)
	}
	if want := []string{"SPL", "NOVEL"}; !reflect.DeepEqual(m.Config.Parse.KnownFlags, want) {
		t.Errorf("known flags = %v, want %v", m.Config.Parse.KnownFlags, want)
	}
	if m.flagWarning() != parser.WarnUnknownFlags {
		t.Errorf("flag warning = %v, want WarnUnknownFlags", m.flagWarning())
	}
	if m.Config.Parse.MaxDiagnostics != 25 {
		t.Errorf("max diagnostics = %d, want 25", m.Config.Parse.MaxDiagnostics)
	}
}

func TestLoadManifestRejectsBadFlagWarning(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[parse]\nflag_warning = \"sometimes\"\n")

	if _, _, err := loadManifest(dir); err == nil {
		t.Fatal("expected an error for a bad flag_warning value")
	}
}

func TestLoadManifestRejectsNegativeMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[parse]\nmax_diagnostics = -1\n")

	if _, _, err := loadManifest(dir); err == nil {
		t.Fatal("expected an error for a negative max_diagnostics")
	}
}

func TestManifestFlagWarningDefault(t *testing.T) {
	var m *dictManifest
	if m.flagWarning() != parser.WarnKnownFlags {
		t.Error("nil manifest must keep the historical polarity")
	}

	m = &dictManifest{}
	if m.flagWarning() != parser.WarnKnownFlags {
		t.Error("unset flag_warning must keep the historical polarity")
	}
}

func TestCollectOptionsManifestAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[parse]\nknown_flags = [\"SPL\"]\nmax_diagnostics = 25\n")

	cmd := newTestRoot()
	opts, err := collectOptions(cmd, dir)
	if err != nil {
		t.Fatalf("collectOptions: %v", err)
	}
	if opts.MaxDiagnostics != 25 {
		t.Errorf("manifest value ignored: max diagnostics = %d, want 25", opts.MaxDiagnostics)
	}
	if want := []string{"SPL"}; !reflect.DeepEqual(opts.KnownFlags, want) {
		t.Errorf("known flags = %v, want %v", opts.KnownFlags, want)
	}

	if err := cmd.PersistentFlags().Set("max-diagnostics", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	opts, err = collectOptions(cmd, dir)
	if err != nil {
		t.Fatalf("collectOptions: %v", err)
	}
	if opts.MaxDiagnostics != 7 {
		t.Errorf("explicit flag must win: max diagnostics = %d, want 7", opts.MaxDiagnostics)
	}
}

func TestCollectOptionsDefaultsWithoutManifestValues(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[dictionary]\nname = \"empty\"\n")

	opts, err := collectOptions(newTestRoot(), dir)
	if err != nil {
		t.Fatalf("collectOptions: %v", err)
	}
	if opts.MaxDiagnostics != driver.DefaultMaxDiagnostics {
		t.Errorf("max diagnostics = %d, want the default %d", opts.MaxDiagnostics, driver.DefaultMaxDiagnostics)
	}
	if opts.KnownFlags != nil {
		t.Errorf("known flags = %v, want nil", opts.KnownFlags)
	}
}
