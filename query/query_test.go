package query

import (
	"testing"
	"time"

	"github.com/ebirch/plover/record"
)

func rec(id string, fields map[string]any) record.Record {
	return record.Record{ID: id, Fields: fields}
}

func ids(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRun_FilterConjunction(t *testing.T) {
	records := []record.Record{
		rec("1", map[string]any{"status": "failed", "size": int64(10)}),
		rec("2", map[string]any{"status": "failed", "size": int64(99)}),
		rec("3", map[string]any{"status": "done", "size": int64(99)}),
	}
	failed := func(r record.Record) bool {
		v, _ := r.Field("status")
		return v == "failed"
	}
	big := func(r record.Record) bool {
		v, _ := r.Field("size")
		return v.(int64) > 50
	}

	out := Run(records, Options{Filters: []Predicate{failed, big}})
	if !equalIDs(ids(out), "2") {
		t.Fatalf("conjunction result = %v, want [2]", ids(out))
	}
}

func TestRun_StableSortOnEqualKeys(t *testing.T) {
	records := []record.Record{
		rec("1", map[string]any{"score": 5}),
		rec("2", map[string]any{"score": 5}),
		rec("3", map[string]any{"score": 1}),
	}
	out := Run(records, Options{SortKey: "score"})
	if !equalIDs(ids(out), "3", "1", "2") {
		t.Fatalf("sorted ids = %v, want [3 1 2] (1 before 2, input order kept)", ids(out))
	}
}

func TestRun_TextSortCaseInsensitive(t *testing.T) {
	records := []record.Record{
		rec("1", map[string]any{"name": "banana"}),
		rec("2", map[string]any{"name": "Apple"}),
		rec("3", map[string]any{"name": "cherry"}),
	}
	out := Run(records, Options{SortKey: "name"})
	if !equalIDs(ids(out), "2", "1", "3") {
		t.Fatalf("sorted ids = %v, want [2 1 3] (Apple first despite case)", ids(out))
	}
}

func TestRun_NumericAndTimeSortByValue(t *testing.T) {
	records := []record.Record{
		rec("1", map[string]any{"size": int64(100)}),
		rec("2", map[string]any{"size": int64(20)}),
		rec("3", map[string]any{"size": int64(3)}),
	}
	out := Run(records, Options{SortKey: "size"})
	if !equalIDs(ids(out), "3", "2", "1") {
		t.Fatalf("numeric sort = %v, want [3 2 1], not lexicographic", ids(out))
	}

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	records = []record.Record{
		rec("a", map[string]any{"modified": base.Add(time.Hour)}),
		rec("b", map[string]any{"modified": base}),
	}
	out = Run(records, Options{SortKey: "modified"})
	if !equalIDs(ids(out), "b", "a") {
		t.Fatalf("time sort = %v, want [b a]", ids(out))
	}
}

func TestRun_Descending(t *testing.T) {
	records := []record.Record{
		rec("1", map[string]any{"size": 1}),
		rec("2", map[string]any{"size": 3}),
		rec("3", map[string]any{"size": 2}),
	}
	out := Run(records, Options{SortKey: "size", Direction: Descending})
	if !equalIDs(ids(out), "2", "3", "1") {
		t.Fatalf("descending sort = %v, want [2 3 1]", ids(out))
	}
}

func TestRun_MissingSortFieldSortsLast(t *testing.T) {
	records := []record.Record{
		rec("1", map[string]any{}),
		rec("2", map[string]any{"size": 5}),
	}
	out := Run(records, Options{SortKey: "size"})
	if !equalIDs(ids(out), "2", "1") {
		t.Fatalf("missing-field sort = %v, want [2 1]", ids(out))
	}
}

func TestRun_InputNotMutated(t *testing.T) {
	records := []record.Record{
		rec("2", map[string]any{"n": 2}),
		rec("1", map[string]any{"n": 1}),
	}
	Run(records, Options{SortKey: "n"})
	if !equalIDs(ids(records), "2", "1") {
		t.Fatalf("input order changed to %v; Run must not mutate its input", ids(records))
	}
}

func TestRun_SortByID(t *testing.T) {
	records := []record.Record{rec("b", nil), rec("a", nil)}
	out := Run(records, Options{SortKey: "id"})
	if !equalIDs(ids(out), "a", "b") {
		t.Fatalf("id sort = %v, want [a b]", ids(out))
	}
}

func TestSearchPredicate(t *testing.T) {
	r := rec("item-42", map[string]any{"name": "Quarterly Report", "size": int64(1234)})

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty matches", "", true},
		{"case-insensitive name", "quarterly", true},
		{"id match", "item-42", true},
		{"number rendered", "1234", true},
		{"no match", "zebra", false},
		{"whitespace trimmed", "  report  ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SearchPredicate(tc.text)(r); got != tc.want {
				t.Fatalf("SearchPredicate(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestSequenceGuard(t *testing.T) {
	var g SequenceGuard

	first := g.Next()
	second := g.Next()

	if g.Accept(first) {
		t.Fatal("superseded sequence must be rejected")
	}
	if !g.Accept(second) {
		t.Fatal("latest sequence must be accepted")
	}
	if got := g.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}

	// Acceptance is repeatable until superseded; arrival order of stale
	// results does not matter.
	if !g.Accept(second) {
		t.Fatal("latest sequence should remain accepted")
	}
	third := g.Next()
	if g.Accept(second) {
		t.Fatal("sequence must be rejected once superseded")
	}
	if !g.Accept(third) {
		t.Fatal("new latest sequence must be accepted")
	}
	if got := g.Dropped(); got != 2 {
		t.Fatalf("Dropped() = %d, want 2", got)
	}
}
