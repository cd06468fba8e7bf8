// Package page slices filtered, sorted record sequences into fixed-size
// pages and tracks the current position.
package page

import "github.com/ebirch/plover/record"

// DefaultSize is the page size used when a caller supplies none.
const DefaultSize = 50

// State describes the pagination position published alongside each render.
type State struct {
	Index int // 0-based page index, already clamped
	Size  int
	Total int // total items across all pages
}

// PageCount returns how many pages the current total occupies; an empty
// dataset still has one (empty) page.
func (s State) PageCount() int {
	return pageCount(s.Total, s.Size)
}

// Slice returns the page at index from items. Out-of-range indexes are
// clamped into the valid range rather than rejected: after a filter shrinks
// the result set below the current page, navigation lands on the last page
// that still exists instead of erroring.
func Slice(items []record.Record, index, size int) []record.Record {
	if size <= 0 {
		size = DefaultSize
	}
	index = Clamp(index, len(items), size)
	start := index * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Clamp forces index into [0, pageCount-1] for the given total and size.
func Clamp(index, total, size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	last := pageCount(total, size) - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return index
}

func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginator tracks the current page for one dataset view. Page size is fixed
// for the session. All navigation routes through Clamp, so navigating past
// either end is safe. Not goroutine-safe; the owning view serializes access.
type Paginator struct {
	index int
	size  int
	total int
}

// New builds a Paginator with the given fixed page size.
func New(size int) *Paginator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Paginator{size: size}
}

// Slice records the dataset total and returns the current page of items,
// clamping the position first.
func (p *Paginator) Slice(items []record.Record) []record.Record {
	p.total = len(items)
	p.index = Clamp(p.index, p.total, p.size)
	return Slice(items, p.index, p.size)
}

// State returns the current pagination state.
func (p *Paginator) State() State {
	return State{Index: p.index, Size: p.size, Total: p.total}
}

// GoTo moves to page n, clamped against the last observed total.
func (p *Paginator) GoTo(n int) {
	p.index = Clamp(n, p.total, p.size)
}

// First moves to page 0.
func (p *Paginator) First() { p.GoTo(0) }

// Prev moves one page back.
func (p *Paginator) Prev() { p.GoTo(p.index - 1) }

// Next moves one page forward.
func (p *Paginator) Next() { p.GoTo(p.index + 1) }

// Last moves to the final page of the last observed total.
func (p *Paginator) Last() { p.GoTo(pageCount(p.total, p.size) - 1) }
