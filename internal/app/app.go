package app

import (
	"context"
	"fmt"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/internal/config"
	"github.com/ebirch/plover/internal/prefs"
	"github.com/ebirch/plover/internal/source"
	"github.com/ebirch/plover/internal/ui"
)

// Options configure the plover application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/plover/prefs.toml

	// Command-line overrides; zero values defer to the config file.
	SourceKind   string
	SourcePath   string
	SourceURL    string
	RefreshEvery int // seconds
}

// Run boots the plover TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	userPrefs := prefs.Load(opts.PrefsPath)

	src, err := source.New(cfg.Source)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}

	view := plover.NewView(src.Fetch, plover.Config{
		PageSize:         cfg.View.PageSize,
		DebounceDelay:    cfg.View.DebounceDelay(),
		RebuildThreshold: cfg.View.RebuildThreshold,
		CacheTTL:         cfg.View.CacheTTL(),
		SignatureFields:  src.SignatureFields,
	})
	defer view.Close()

	if cfg.View.Filter != "" {
		if err := view.SetFilterExpr(cfg.View.Filter); err != nil {
			return fmt.Errorf("install filter %q: %w", cfg.View.Filter, err)
		}
	}

	// Background refresher; the UI's Init issues the initial load.
	StartRefresher(ctx, view, cfg.View.RefreshEvery())

	return ui.Run(ctx, ui.Options{
		View:      view,
		Source:    src,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.SourceKind != "" {
		cfg.Source.Kind = opts.SourceKind
	}
	if opts.SourcePath != "" {
		cfg.Source.Path = opts.SourcePath
	}
	if opts.SourceURL != "" {
		cfg.Source.URL = opts.SourceURL
	}
	if opts.RefreshEvery > 0 {
		cfg.View.RefreshSeconds = opts.RefreshEvery
	}
}
