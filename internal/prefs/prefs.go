// Package prefs persists the cosmetic half of a plover session: the active
// theme and the last sort order, restored on the next start. Host
// configuration (which source, engine tuning) lives in config; preferences
// never gate startup.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs is the session state carried between runs. SortKey names a field of
// the active source; SortDir is "asc" or "desc". Both empty means the source
// default order.
type Prefs struct {
	Theme   string `toml:"theme"`
	SortKey string `toml:"sort_key"`
	SortDir string `toml:"sort_dir"`
}

const (
	defaultPrefsPath = "~/.config/plover/prefs.toml"
	defaultTheme     = "dusk"
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from path, or from ~/.config/plover/prefs.toml when
// path is empty. Preferences are cosmetic, so every failure mode degrades to
// defaults instead of erroring.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default()
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return Default() // missing or unreadable
	}

	p := Default()
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Default()
	}
	return p.normalized()
}

// Save writes preferences to path (same default as Load), creating parent
// directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}

	raw, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err := os.WriteFile(resolved, raw, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// normalized discards values that could confuse the UI on restore: a blank
// theme falls back to the default, and a sort direction other than asc/desc
// clears the stored sort entirely.
func (p Prefs) normalized() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	switch p.SortDir {
	case "asc", "desc":
	case "":
		if p.SortKey != "" {
			p.SortDir = "asc"
		}
	default:
		p.SortKey = ""
		p.SortDir = ""
	}
	if p.SortKey == "" {
		p.SortDir = ""
	}
	return p
}

func resolvePath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultPrefsPath
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
