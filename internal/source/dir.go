package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/record"
)

// NewDir builds a directory-listing source rooted at path. Every fetch
// re-reads the directory, so externally created, removed or touched files
// show up on the next refresh. The engine handles search, sort and paging;
// the fetch ignores the query entirely.
func NewDir(path string) Source {
	return Source{
		Name:            "dir " + path,
		Fetch:           dirFetch(path),
		SignatureFields: []string{"name", "size", "modified", "dir"},
		Columns:         []string{"name", "size", "modified"},
		SortKeys:        []string{"name", "size", "modified", "ext"},
	}
}

func dirFetch(path string) plover.FetchFunc {
	return func(ctx context.Context, _ plover.Query) ([]record.Record, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}

		records := make([]record.Record, 0, len(entries))
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil {
				// Deleted between ReadDir and Stat; skip rather
				// than fail the whole listing.
				continue
			}
			ext := ""
			if !entry.IsDir() {
				ext = strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
			}
			records = append(records, record.Record{
				ID: entry.Name(),
				Fields: map[string]any{
					"name":     entry.Name(),
					"size":     info.Size(),
					"modified": info.ModTime(),
					"dir":      entry.IsDir(),
					"ext":      ext,
					"mode":     info.Mode().String(),
				},
			})
		}
		return records, nil
	}
}
