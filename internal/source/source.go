package source

import (
	"fmt"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/internal/config"
)

// Source bundles a fetch collaborator with the metadata the host UI needs to
// present its records: which fields participate in change detection, which
// columns to draw, and which keys make sense to sort by.
type Source struct {
	Name            string
	Fetch           plover.FetchFunc
	SignatureFields []string
	Columns         []string
	SortKeys        []string
}

// New builds the source selected by cfg.
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case "dir":
		return NewDir(cfg.Path), nil
	case "log":
		return NewLog(cfg.Path, defaultLogLimit), nil
	case "http":
		return NewHTTP(cfg.URL)
	default:
		return Source{}, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
