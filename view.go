package plover

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ebirch/plover/debounce"
	"github.com/ebirch/plover/diff"
	"github.com/ebirch/plover/page"
	"github.com/ebirch/plover/query"
	"github.com/ebirch/plover/record"
	"github.com/ebirch/plover/store"
)

// Query is what the view hands to the fetch collaborator. A source that
// cannot filter or order server-side may ignore every field: the engine
// always applies its own search predicate and sort to whatever comes back.
type Query struct {
	SearchText string
	SortKey    string
	Direction  query.Direction
}

// FetchFunc is the host-supplied data collaborator. It may block on I/O; the
// view calls it on its own goroutine and discards superseded results.
type FetchFunc func(ctx context.Context, q Query) ([]record.Record, error)

// Frame is the renderable state published to subscribers: the row plan for
// the visible page plus position and error information. Err set means the
// fetch failed; previous rows remain valid and the failure is retryable.
type Frame struct {
	Actions   []diff.RowAction
	Page      page.State
	Query     Query
	Err       error
	UpdatedAt time.Time
}

// Config tunes a View.
type Config struct {
	// PageSize fixes the page size for the view session. Zero uses
	// page.DefaultSize.
	PageSize int
	// DebounceDelay is the quiet period after the last SetSearchText call
	// before the query runs. Zero uses DefaultDebounceDelay.
	DebounceDelay time.Duration
	// RebuildThreshold overrides diff.DefaultRebuildThreshold when in (0, 1].
	RebuildThreshold float64
	// CacheTTL bounds reuse of a previous fetch result for an identical
	// query; within the window a reload skips the fetch entirely. Zero
	// disables the cache. Refresh always bypasses it.
	CacheTTL time.Duration
	// SignatureFields are the display-relevant record fields. A change in
	// any of them rebuilds the row; fields left off never do. Empty means
	// only the record ID participates in change detection.
	SignatureFields []string
	// Logger receives side-channel reports: data-quality warnings,
	// subscriber panics, stale-response drops. Nil uses log.Default().
	Logger *log.Logger
}

// DefaultDebounceDelay is the keystroke quiet period used when Config leaves
// DebounceDelay zero.
const DefaultDebounceDelay = 250 * time.Millisecond

const frameSlot = "frame"

// View presents one dataset. Create with NewView, release with Close.
// All public operations are safe for concurrent use.
type View struct {
	id     string
	fetch  FetchFunc
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	st    *store.Store
	deb   *debounce.Debouncer
	guard query.SequenceGuard

	cacheTTL time.Duration
	delay    time.Duration

	// mu serializes query-state mutation and all result processing, so
	// reconciliation for this view never runs concurrently with itself.
	mu       sync.Mutex
	q        Query
	filters  []query.Predicate
	pager    *page.Paginator
	rec      *diff.Reconciler
	lastPage int
}

// NewView builds a View around the fetch collaborator. The view owns its
// store, debouncer, paginator and reconciler; no ambient singletons.
func NewView(fetch FetchFunc, cfg Config) *View {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	computer := record.NewComputer(cfg.SignatureFields, record.WithLogger(logger))
	diffOpts := []diff.Option{}
	if cfg.RebuildThreshold > 0 {
		diffOpts = append(diffOpts, diff.WithThreshold(cfg.RebuildThreshold))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		id:       uuid.NewString(),
		fetch:    fetch,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		st:       store.New(store.WithLogger(logger)),
		deb:      debounce.New(),
		cacheTTL: cfg.CacheTTL,
		delay:    delay,
		pager:    page.New(cfg.PageSize),
		rec:      diff.NewReconciler(computer, diffOpts...),
		lastPage: -1,
	}
}

// SetSearchText updates the search input. The reload is debounced: a burst of
// calls runs one query, DebounceDelay after the last call.
func (v *View) SetSearchText(text string) {
	v.mu.Lock()
	v.q.SearchText = text
	v.mu.Unlock()
	v.deb.Trigger(func() { v.reload(false) }, v.delay)
}

// SetSort changes the sort order and reloads immediately.
func (v *View) SetSort(key string, dir query.Direction) {
	v.mu.Lock()
	v.q.SortKey = key
	v.q.Direction = dir
	v.mu.Unlock()
	v.reload(false)
}

// SetFilter replaces the filter predicates (a conjunction) and reloads
// immediately. Call with no arguments to clear filtering.
func (v *View) SetFilter(preds ...query.Predicate) {
	v.mu.Lock()
	v.filters = preds
	v.mu.Unlock()
	v.reload(false)
}

// SetFilterExpr compiles expr (see query.CompilePredicate) and installs it as
// the sole filter. An empty expression clears filtering.
func (v *View) SetFilterExpr(expr string) error {
	if expr == "" {
		v.SetFilter()
		return nil
	}
	pred, err := query.CompilePredicate(expr)
	if err != nil {
		return fmt.Errorf("set filter: %w", err)
	}
	v.SetFilter(pred)
	return nil
}

// GotoPage navigates to page n (clamped) and reloads.
func (v *View) GotoPage(n int) { v.navigate(func(p *page.Paginator) { p.GoTo(n) }) }

// NextPage navigates one page forward.
func (v *View) NextPage() { v.navigate((*page.Paginator).Next) }

// PrevPage navigates one page back.
func (v *View) PrevPage() { v.navigate((*page.Paginator).Prev) }

// FirstPage navigates to page 0.
func (v *View) FirstPage() { v.navigate((*page.Paginator).First) }

// LastPage navigates to the final page.
func (v *View) LastPage() { v.navigate((*page.Paginator).Last) }

func (v *View) navigate(move func(*page.Paginator)) {
	v.mu.Lock()
	move(v.pager)
	v.mu.Unlock()
	v.reload(false)
}

// Refresh reloads immediately, bypassing the fetch-result cache. Explicit
// refresh after a fetch failure is the retry affordance.
func (v *View) Refresh() {
	v.reload(true)
}

// Subscribe registers fn for future frames and returns its remover. The
// callback does not fire with the current frame; read it once with LastFrame
// if needed. Frames that change nothing visible are not delivered.
//
// Callbacks run synchronously on the view's processing path and must not
// call back into the view; hand the frame to your own loop (a channel, a UI
// dispatch queue) and return.
func (v *View) Subscribe(fn func(Frame)) func() {
	return v.st.Subscribe(frameSlot, func(value any) {
		fn(value.(Frame))
	})
}

// LastFrame returns the most recently published frame, if any.
func (v *View) LastFrame() (Frame, bool) {
	value, ok := v.st.Get(frameSlot)
	if !ok {
		return Frame{}, false
	}
	return value.(Frame), true
}

// StaleDrops reports how many superseded fetch results have been discarded.
// Diagnostics only; drops are expected behavior.
func (v *View) StaleDrops() uint64 {
	return v.guard.Dropped()
}

// Close cancels in-flight fetches and pending debounced work. The view must
// not be used afterwards.
func (v *View) Close() {
	v.deb.Dispose()
	v.cancel()
}

// reload starts one load cycle: allocate a sequence number, obtain records
// (cache or fetch), then apply. Allocating the sequence number first is what
// supersedes any in-flight fetch the moment a newer trigger arrives.
func (v *View) reload(bypassCache bool) {
	if v.ctx.Err() != nil {
		return
	}
	v.mu.Lock()
	q := v.q
	v.mu.Unlock()

	seq := v.guard.Next()
	key := cacheKey(q)

	if !bypassCache && v.cacheTTL > 0 {
		if cached, ok := v.st.GetCached(key, v.cacheTTL); ok {
			v.apply(seq, q, cached.([]record.Record), nil)
			return
		}
	}

	go func() {
		recs, err := v.fetch(v.ctx, q)
		if err == nil {
			v.st.Set(key, recs)
		}
		v.apply(seq, q, recs, err)
	}()
}

// apply joins a fetch result back into the view. Stale results are dropped
// here; everything past the guard runs under the view mutex, giving the
// pipeline its single-logical-thread semantics.
func (v *View) apply(seq uint64, q Query, recs []record.Record, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Checked under the mutex: a result that was current when it arrived
	// may have been superseded while waiting its turn, and must not be
	// published after its successor.
	if !v.guard.Accept(seq) {
		v.logger.Printf("view %s: discarded stale response (seq %d)", v.id, seq)
		return
	}

	if err != nil {
		// Previous signatures stay untouched so the next successful
		// fetch still diffs against the last good page.
		frame := Frame{
			Page:      v.pager.State(),
			Query:     q,
			Err:       err,
			UpdatedAt: time.Now(),
		}
		v.st.Set(frameSlot, frame, store.WithEqual(frameEqual))
		return
	}

	opts := query.Options{
		Filters:   append(append([]query.Predicate(nil), v.filters...), query.SearchPredicate(q.SearchText)),
		SortKey:   q.SortKey,
		Direction: q.Direction,
	}
	visible := query.Run(recs, opts)
	pageItems := v.pager.Slice(visible)
	st := v.pager.State()

	// Positional signatures are only valid across re-renders of the same
	// page; landing on a different page invalidates them.
	if st.Index != v.lastPage {
		v.rec.Reset()
	}
	v.lastPage = st.Index

	frame := Frame{
		Actions:   v.rec.Reconcile(pageItems),
		Page:      st,
		Query:     q,
		UpdatedAt: time.Now(),
	}
	v.st.Set(frameSlot, frame, store.WithEqual(frameEqual))
}

// cacheKey fingerprints the parts of a query that determine a fetch result.
func cacheKey(q Query) string {
	return fmt.Sprintf("records\x1f%s\x1f%s\x1f%s", q.SearchText, q.SortKey, q.Direction)
}

// frameEqual collapses frames that change nothing visible: same query, same
// page position, same error state, and no row needs rebuilding. The store's
// no-op Set invariant then guarantees subscribers stay quiet.
func frameEqual(prev, next any) bool {
	p, pok := prev.(Frame)
	n, nok := next.(Frame)
	if !pok || !nok {
		return false
	}
	if p.Query != n.Query || p.Page != n.Page {
		return false
	}
	if (p.Err == nil) != (n.Err == nil) {
		return false
	}
	if p.Err != nil && p.Err.Error() != n.Err.Error() {
		return false
	}
	for _, action := range n.Actions {
		if action.Op == diff.Rebuild {
			return false
		}
	}
	return true
}
