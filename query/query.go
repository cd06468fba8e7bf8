// Package query filters and orders record sets for presentation. Run is the
// synchronous, pure pipeline stage; SequenceGuard supplies the staleness
// check for the asynchronous fetch boundary that feeds it.
package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ebirch/plover/record"
)

// Predicate decides whether a record passes a filter. Predicates must be pure.
type Predicate func(record.Record) bool

// Direction orders sort output.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String implements fmt.Stringer for diagnostics and UI labels.
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Options configure one pipeline run.
type Options struct {
	// Filters form a conjunction: a record passes only if every predicate
	// accepts it.
	Filters []Predicate
	// SortKey names the field to order by; "id" targets the record ID and
	// an empty key skips sorting entirely, preserving input order.
	SortKey   string
	Direction Direction
}

// Run applies the filters and sort order to records and returns a new slice.
// It is idempotent and side-effect-free: the input slice and its records are
// never mutated. Sorting is stable so records comparing equal under the sort
// key keep their relative input order between otherwise-identical runs; that
// stability is what keeps unrelated rows from jittering position and
// defeating positional row reuse downstream.
func Run(records []record.Record, opts Options) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if accept(rec, opts.Filters) {
			out = append(out, rec)
		}
	}

	if opts.SortKey == "" {
		return out
	}

	// Text comparison is case-insensitive collation; the collator is not
	// goroutine-safe, so each run builds its own.
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareField(out[i], out[j], opts.SortKey, coll)
		if opts.Direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

func accept(rec record.Record, filters []Predicate) bool {
	for _, pred := range filters {
		if !pred(rec) {
			return false
		}
	}
	return true
}

// compareField orders two records by one field: numerics and times by value,
// everything else as collated text. A record missing the field sorts after
// one that has it.
func compareField(a, b record.Record, key string, coll *collate.Collator) int {
	av, aok := a.Field(key)
	bv, bok := b.Field(key)
	if !aok || !bok {
		switch {
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	}

	if an, ok := asFloat(av); ok {
		if bn, ok := asFloat(bv); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}

	if at, ok := av.(time.Time); ok {
		if bt, ok := bv.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	return coll.CompareString(record.FormatValue(av), record.FormatValue(bv))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case time.Duration:
		return float64(n), true
	default:
		return 0, false
	}
}

// SearchPredicate builds the engine's default search filter: a
// case-insensitive substring match over the record ID and every field value.
// An empty search text accepts everything.
func SearchPredicate(text string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return func(record.Record) bool { return true }
	}
	return func(rec record.Record) bool {
		if strings.Contains(strings.ToLower(rec.ID), needle) {
			return true
		}
		for _, v := range rec.Fields {
			if strings.Contains(strings.ToLower(record.FormatValue(v)), needle) {
				return true
			}
		}
		return false
	}
}
