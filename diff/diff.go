// Package diff decides which visible rows can be reused unchanged between
// render passes and which must be rebuilt.
//
// Reconciliation is positional: signature i of the previous pass is compared
// to signature i of the current page slice. Position, not record identity, is
// what row reuse is about, so previous signatures are only meaningful across
// re-renders of the same page. The owning view must Reset the reconciler
// whenever the page index or page size changes; comparing across pages would
// silently reuse a row showing the wrong item's old content.
package diff

import "github.com/ebirch/plover/record"

// Op classifies one row action.
type Op int

const (
	// Reuse keeps the existing row for this position untouched.
	Reuse Op = iota
	// Rebuild replaces the row at this position from Item.
	Rebuild
)

// String implements fmt.Stringer for diagnostics.
func (o Op) String() string {
	if o == Rebuild {
		return "rebuild"
	}
	return "reuse"
}

// RowAction tells the renderer what to do with one visible row position.
// Item is populated only for Rebuild.
type RowAction struct {
	Op    Op
	Index int
	Item  record.Record
}

// DefaultRebuildThreshold is the change-density ratio above which a partial
// plan is abandoned for a full rebuild. Above this density the bookkeeping of
// a partial update costs more than a clean rebuild, and a full rebuild is
// easier to reason about than a "mostly rebuild anyway" plan. The value is a
// tunable starting point, not a measured law; hosts should validate it
// against their own rendering cost.
const DefaultRebuildThreshold = 0.4

// Reconciler computes row plans for one page-view session. It owns the
// previous pass's signature list exclusively; callers serialize Reconcile
// calls (the engine's one-live-request property does this for search-driven
// updates, and the view mutex covers navigation and refresh).
type Reconciler struct {
	computer  *record.Computer
	threshold float64
	prev      []record.Signature
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithThreshold overrides DefaultRebuildThreshold. Values outside (0, 1] are
// ignored.
func WithThreshold(ratio float64) Option {
	return func(r *Reconciler) {
		if ratio > 0 && ratio <= 1 {
			r.threshold = ratio
		}
	}
}

// NewReconciler builds a Reconciler deriving signatures with computer.
func NewReconciler(computer *record.Computer, opts ...Option) *Reconciler {
	r := &Reconciler{
		computer:  computer,
		threshold: DefaultRebuildThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile compares the current page items against the previous pass and
// returns one action per position. When the fraction of rebuilt rows exceeds
// the threshold the partial plan is discarded and every position is rebuilt.
// Either way the full current signature list is retained for the next pass.
func (r *Reconciler) Reconcile(items []record.Record) []RowAction {
	sigs := r.computer.ComputeAll(items)

	plan := make([]RowAction, len(items))
	rebuilt := 0
	for i, item := range items {
		if i < len(r.prev) && r.prev[i] == sigs[i] {
			plan[i] = RowAction{Op: Reuse, Index: i}
			continue
		}
		plan[i] = RowAction{Op: Rebuild, Index: i, Item: item}
		rebuilt++
	}

	if len(items) > 0 && float64(rebuilt)/float64(len(items)) > r.threshold {
		for i, item := range items {
			plan[i] = RowAction{Op: Rebuild, Index: i, Item: item}
		}
	}

	r.prev = sigs
	return plan
}

// Reset clears the previous signatures. The view calls it on page-index or
// page-size changes so the next Reconcile rebuilds every position, and after
// view teardown state should not leak into a reopened page.
func (r *Reconciler) Reset() {
	r.prev = nil
}

// Signatures returns a copy of the signatures retained from the last pass.
func (r *Reconciler) Signatures() []record.Signature {
	return append([]record.Signature(nil), r.prev...)
}
