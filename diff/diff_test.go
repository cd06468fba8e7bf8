package diff

import (
	"fmt"
	"testing"

	"github.com/ebirch/plover/record"
)

func newComputer() *record.Computer {
	return record.NewComputer([]string{"value"})
}

func item(id, value string) record.Record {
	return record.Record{ID: id, Fields: map[string]any{"value": value}}
}

func opsOf(plan []RowAction) string {
	out := ""
	for _, a := range plan {
		if a.Op == Reuse {
			out += "u"
		} else {
			out += "b"
		}
	}
	return out
}

func TestReconcile_FirstPassRebuildsEverything(t *testing.T) {
	r := NewReconciler(newComputer())
	plan := r.Reconcile([]record.Record{item("1", "a"), item("2", "b")})
	if got := opsOf(plan); got != "bb" {
		t.Fatalf("first pass plan = %q, want all rebuilds", got)
	}
	if plan[1].Item.ID != "2" {
		t.Fatalf("Rebuild action item = %q, want record 2", plan[1].Item.ID)
	}
}

func TestReconcile_ReusesUnchangedRows(t *testing.T) {
	// Threshold of 1.0 keeps partial plans for this test.
	r := NewReconciler(newComputer(), WithThreshold(1.0))

	r.Reconcile([]record.Record{item("1", "a"), item("2", "b"), item("3", "c")})
	plan := r.Reconcile([]record.Record{item("1", "a"), item("2", "B"), item("3", "c")})

	if got := opsOf(plan); got != "ubu" {
		t.Fatalf("plan = %q, want reuse/rebuild/reuse", got)
	}
	if plan[1].Item.ID != "2" {
		t.Fatalf("rebuild carries item %q, want 2", plan[1].Item.ID)
	}
	if plan[0].Item.ID != "" {
		t.Fatal("Reuse action must not carry an item")
	}
}

func TestReconcile_ThresholdEscalatesToFullRebuild(t *testing.T) {
	r := NewReconciler(newComputer()) // default 0.4

	r.Reconcile([]record.Record{item("1", "a"), item("2", "b")})
	// One of two rows changed: ratio 0.5 > 0.4, so the partial plan is
	// abandoned and both rows rebuild.
	plan := r.Reconcile([]record.Record{item("1", "a"), item("2", "c")})
	if got := opsOf(plan); got != "bb" {
		t.Fatalf("plan = %q, want full rebuild above threshold", got)
	}
	if plan[0].Item.ID != "1" || plan[1].Item.ID != "2" {
		t.Fatal("escalated plan must carry every item")
	}
}

func TestReconcile_BelowThresholdKeepsPartialPlan(t *testing.T) {
	r := NewReconciler(newComputer()) // default 0.4

	var items []record.Record
	for i := 0; i < 10; i++ {
		items = append(items, item(fmt.Sprintf("%d", i), "same"))
	}
	r.Reconcile(items)

	// 3 of 10 changed: 0.3 <= 0.4 keeps the partial plan.
	changed := append([]record.Record(nil), items...)
	changed[0] = item("0", "new")
	changed[4] = item("4", "new")
	changed[9] = item("9", "new")
	plan := r.Reconcile(changed)
	if got := opsOf(plan); got != "buuubuuuub" {
		t.Fatalf("plan = %q, want partial plan with 3 rebuilds", got)
	}
}

func TestReconcile_SignaturesRetainedAfterEscalation(t *testing.T) {
	r := NewReconciler(newComputer())

	r.Reconcile([]record.Record{item("1", "a"), item("2", "b")})
	r.Reconcile([]record.Record{item("1", "x"), item("2", "y")}) // full rebuild

	// The retained signatures are the current ones, so re-rendering the
	// same data now reuses every row.
	plan := r.Reconcile([]record.Record{item("1", "x"), item("2", "y")})
	if got := opsOf(plan); got != "uu" {
		t.Fatalf("plan after identical pass = %q, want all reuse", got)
	}
}

func TestReconcile_ShorterPageRebuildsNewTail(t *testing.T) {
	r := NewReconciler(newComputer(), WithThreshold(1.0))

	r.Reconcile([]record.Record{item("1", "a")})
	plan := r.Reconcile([]record.Record{item("1", "a"), item("2", "b")})
	if got := opsOf(plan); got != "ub" {
		t.Fatalf("plan = %q, want reuse then rebuild for position without history", got)
	}
	if got := len(r.Signatures()); got != 2 {
		t.Fatalf("retained signatures = %d, want 2", got)
	}
}

func TestReconcile_EmptyPage(t *testing.T) {
	r := NewReconciler(newComputer())
	r.Reconcile([]record.Record{item("1", "a")})

	plan := r.Reconcile(nil)
	if len(plan) != 0 {
		t.Fatalf("empty page plan = %d actions, want 0", len(plan))
	}
	if got := len(r.Signatures()); got != 0 {
		t.Fatalf("retained signatures = %d, want 0 after empty page", got)
	}
}

func TestReset_ClearsHistory(t *testing.T) {
	r := NewReconciler(newComputer(), WithThreshold(1.0))

	r.Reconcile([]record.Record{item("1", "a"), item("2", "b")})
	r.Reset()

	// Same data, but position history is gone: nothing may be reused.
	plan := r.Reconcile([]record.Record{item("1", "a"), item("2", "b")})
	if got := opsOf(plan); got != "bb" {
		t.Fatalf("plan after Reset = %q, want all rebuilds", got)
	}
}

func TestWithThreshold_RejectsOutOfRange(t *testing.T) {
	r := NewReconciler(newComputer(), WithThreshold(0), WithThreshold(1.5), WithThreshold(-1))
	if r.threshold != DefaultRebuildThreshold {
		t.Fatalf("threshold = %v, want default for out-of-range options", r.threshold)
	}
}
