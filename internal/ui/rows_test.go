package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/diff"
	"github.com/ebirch/plover/page"
	"github.com/ebirch/plover/record"
)

func TestRowCache_Apply(t *testing.T) {
	var cache rowCache
	renders := 0
	render := func(item record.Record) string {
		renders++
		return fmt.Sprintf("render %s #%d", item.ID, renders)
	}

	plan := []diff.RowAction{
		{Op: diff.Rebuild, Index: 0, Item: record.Record{ID: "a"}},
		{Op: diff.Rebuild, Index: 1, Item: record.Record{ID: "b"}},
	}
	if got := cache.apply(plan, render); got != 2 {
		t.Fatalf("rebuilt = %d, want 2", got)
	}
	first := cache.rows[0]

	// Reuse must keep the cached string verbatim and skip the renderer.
	plan = []diff.RowAction{
		{Op: diff.Reuse, Index: 0, Item: record.Record{ID: "a"}},
		{Op: diff.Rebuild, Index: 1, Item: record.Record{ID: "b2"}},
	}
	if got := cache.apply(plan, render); got != 1 {
		t.Fatalf("rebuilt = %d, want 1", got)
	}
	if cache.rows[0] != first {
		t.Fatalf("reused row changed: got %q, want %q", cache.rows[0], first)
	}
	if renders != 3 {
		t.Fatalf("renders = %d, want 3", renders)
	}
}

func TestRowCache_ReuseBeyondCacheRenders(t *testing.T) {
	var cache rowCache
	render := func(item record.Record) string { return "r:" + item.ID }

	// A Reuse pointing past the cached rows cannot be honored and must
	// fall back to rendering.
	plan := []diff.RowAction{
		{Op: diff.Reuse, Index: 0, Item: record.Record{ID: "x"}},
	}
	if got := cache.apply(plan, render); got != 1 {
		t.Fatalf("rebuilt = %d, want 1", got)
	}
	if cache.rows[0] != "r:x" {
		t.Fatalf("row = %q, want %q", cache.rows[0], "r:x")
	}
}

func TestRowCache_ShrinkingPlan(t *testing.T) {
	var cache rowCache
	render := func(item record.Record) string { return item.ID }

	cache.apply([]diff.RowAction{
		{Op: diff.Rebuild, Index: 0, Item: record.Record{ID: "a"}},
		{Op: diff.Rebuild, Index: 1, Item: record.Record{ID: "b"}},
		{Op: diff.Rebuild, Index: 2, Item: record.Record{ID: "c"}},
	}, render)

	cache.apply([]diff.RowAction{
		{Op: diff.Reuse, Index: 0, Item: record.Record{ID: "a"}},
	}, render)
	if len(cache.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(cache.rows))
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHumanizeSince(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "now"},
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m"},
		{5 * time.Hour, "5h"},
		{49 * time.Hour, "2d"},
	}
	for _, tc := range cases {
		if got := humanizeSince(tc.in); got != tc.want {
			t.Errorf("humanizeSince(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"anything", 0, "anything"},
		{"ab", 1, "a"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestFormatCell(t *testing.T) {
	if got := formatCell("size", int64(2048)); got != "2.0 KiB" {
		t.Errorf("size cell = %q, want %q", got, "2.0 KiB")
	}
	if got := formatCell("dir", true); got != "dir" {
		t.Errorf("dir cell = %q, want %q", got, "dir")
	}
	if got := formatCell("dir", false); got != "file" {
		t.Errorf("dir cell = %q, want %q", got, "file")
	}
	if got := formatCell("count", int64(7)); got != "7" {
		t.Errorf("count cell = %q, want %q", got, "7")
	}
}

func TestPageLabel(t *testing.T) {
	f := plover.Frame{Page: page.State{Index: 1, Size: 50, Total: 120}}
	if got := pageLabel(f); got != "page 2/3 · 120 items" {
		t.Fatalf("pageLabel = %q", got)
	}
	empty := plover.Frame{Page: page.State{Index: 0, Size: 50, Total: 0}}
	if got := pageLabel(empty); got != "page 1/1 · 0 items" {
		t.Fatalf("pageLabel(empty) = %q", got)
	}
}
