package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dv6/internal/parser"
)

// dictManifest is an optional dv6.toml discovered in or above the target
// directory. Every setting in it is optional; explicit flags win over it.
type dictManifest struct {
	Path   string
	Root   string
	Config dictConfig
}

type dictConfig struct {
	Dictionary dictionarySection `toml:"dictionary"`
	Parse      parseSection      `toml:"parse"`
}

type dictionarySection struct {
	Name string `toml:"name"`
}

type parseSection struct {
	KnownFlags     []string `toml:"known_flags"`
	FlagWarning    string   `toml:"flag_warning"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

func findDV6Toml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "dv6.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(startDir string) (*dictManifest, bool, error) {
	path, ok, err := findDV6Toml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg dictConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := validateManifest(path, cfg); err != nil {
		return nil, true, err
	}
	return &dictManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func validateManifest(path string, cfg dictConfig) error {
	switch strings.TrimSpace(strings.ToLower(cfg.Parse.FlagWarning)) {
	case "", "known", "unknown":
	default:
		return fmt.Errorf("%s: [parse].flag_warning must be \"known\" or \"unknown\", got %q", path, cfg.Parse.FlagWarning)
	}
	if cfg.Parse.MaxDiagnostics < 0 {
		return fmt.Errorf("%s: [parse].max_diagnostics must not be negative", path)
	}
	return nil
}

// flagWarning maps the manifest setting onto the parser polarity. The
// historical behavior, warning on known flags, is the default.
func (m *dictManifest) flagWarning() parser.FlagWarning {
	if m == nil {
		return parser.WarnKnownFlags
	}
	if strings.TrimSpace(strings.ToLower(m.Config.Parse.FlagWarning)) == "unknown" {
		return parser.WarnUnknownFlags
	}
	return parser.WarnKnownFlags
}
