package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the plover host configuration: which data source to browse
// and how the view engine is tuned.
type Config struct {
	Source SourceConfig
	View   ViewConfig
}

// SourceConfig selects and parameterizes the fetch collaborator.
type SourceConfig struct {
	Kind string // "dir", "log" or "http"
	Path string // dir and log kinds
	URL  string // http kind
}

// ViewConfig tunes the view engine.
type ViewConfig struct {
	PageSize         int
	DebounceMS       int
	RebuildThreshold float64
	CacheTTLMS       int
	RefreshSeconds   int
	Filter           string // optional CEL filter installed at startup
}

const (
	defaultConfigPath = "~/.config/plover/config.toml"

	defaultKind             = "dir"
	defaultPageSize         = 50
	defaultDebounceMS       = 250
	defaultRebuildThreshold = 0.4
	defaultCacheTTLMS       = 1500
	defaultRefreshSeconds   = 2
)

// DebounceDelay returns the configured keystroke quiet period.
func (v ViewConfig) DebounceDelay() time.Duration {
	return time.Duration(v.DebounceMS) * time.Millisecond
}

// CacheTTL returns the configured fetch-result cache window.
func (v ViewConfig) CacheTTL() time.Duration {
	return time.Duration(v.CacheTTLMS) * time.Millisecond
}

// RefreshEvery returns the background refresh cadence.
func (v ViewConfig) RefreshEvery() time.Duration {
	return time.Duration(v.RefreshSeconds) * time.Second
}

// Load locates and parses the plover config, falling back to defaults when
// the file is missing. An unreadable or invalid file is an error; silently
// browsing the wrong dataset would be worse than failing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Source struct {
			Kind string `toml:"kind"`
			Path string `toml:"path"`
			URL  string `toml:"url"`
		} `toml:"source"`
		View struct {
			PageSize         int     `toml:"page_size"`
			DebounceMS       int     `toml:"debounce_ms"`
			RebuildThreshold float64 `toml:"rebuild_threshold"`
			CacheTTLMS       int     `toml:"cache_ttl_ms"`
			RefreshSeconds   int     `toml:"refresh_seconds"`
			Filter           string  `toml:"filter"`
		} `toml:"view"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if kind := strings.TrimSpace(raw.Source.Kind); kind != "" {
		cfg.Source.Kind = strings.ToLower(kind)
	}
	if p := strings.TrimSpace(raw.Source.Path); p != "" {
		cfg.Source.Path = mustExpand(p)
	}
	if u := strings.TrimSpace(raw.Source.URL); u != "" {
		cfg.Source.URL = u
	}
	if raw.View.PageSize > 0 {
		cfg.View.PageSize = raw.View.PageSize
	}
	if raw.View.DebounceMS > 0 {
		cfg.View.DebounceMS = raw.View.DebounceMS
	}
	if raw.View.RebuildThreshold > 0 && raw.View.RebuildThreshold <= 1 {
		cfg.View.RebuildThreshold = raw.View.RebuildThreshold
	}
	if raw.View.CacheTTLMS > 0 {
		cfg.View.CacheTTLMS = raw.View.CacheTTLMS
	}
	if raw.View.RefreshSeconds > 0 {
		cfg.View.RefreshSeconds = raw.View.RefreshSeconds
	}
	cfg.View.Filter = strings.TrimSpace(raw.View.Filter)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Source: SourceConfig{Kind: defaultKind, Path: mustExpand("~")},
		View: ViewConfig{
			PageSize:         defaultPageSize,
			DebounceMS:       defaultDebounceMS,
			RebuildThreshold: defaultRebuildThreshold,
			CacheTTLMS:       defaultCacheTTLMS,
			RefreshSeconds:   defaultRefreshSeconds,
		},
	}
}

func (c Config) validate() error {
	switch c.Source.Kind {
	case "dir", "log":
		if strings.TrimSpace(c.Source.Path) == "" {
			return fmt.Errorf("source kind %q requires path", c.Source.Kind)
		}
	case "http":
		if strings.TrimSpace(c.Source.URL) == "" {
			return fmt.Errorf("source kind http requires url")
		}
	default:
		return fmt.Errorf("unknown source kind %q (want dir, log or http)", c.Source.Kind)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
