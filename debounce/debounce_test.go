package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTrigger_CoalescesToLastFunc(t *testing.T) {
	d := New()
	defer d.Dispose()

	var ranA, ranB atomic.Int32
	d.Trigger(func() { ranA.Add(1) }, 60*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	d.Trigger(func() { ranB.Add(1) }, 60*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	if got := ranA.Load(); got != 0 {
		t.Fatalf("superseded fn ran %d times, want 0", got)
	}
	if got := ranB.Load(); got != 1 {
		t.Fatalf("latest fn ran %d times, want exactly 1", got)
	}
}

func TestTrigger_DelayMeasuredFromLastCall(t *testing.T) {
	d := New()
	defer d.Dispose()

	fired := make(chan time.Time, 1)
	d.Trigger(func() { fired <- time.Now() }, 80*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	restart := time.Now()
	d.Trigger(func() { fired <- time.Now() }, 80*time.Millisecond)

	select {
	case at := <-fired:
		if elapsed := at.Sub(restart); elapsed < 60*time.Millisecond {
			t.Fatalf("fired %v after the second trigger, want ~80ms", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced fn never fired")
	}
}

func TestCancel_DropsPendingWork(t *testing.T) {
	d := New()
	defer d.Dispose()

	var ran atomic.Int32
	d.Trigger(func() { ran.Add(1) }, 40*time.Millisecond)
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	if got := ran.Load(); got != 0 {
		t.Fatalf("cancelled fn ran %d times, want 0", got)
	}

	// Cancel does not dispose: a later trigger still works.
	d.Trigger(func() { ran.Add(1) }, 10*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	if got := ran.Load(); got != 1 {
		t.Fatalf("post-cancel trigger ran %d times, want 1", got)
	}
}

func TestDispose_PreventsFiringAndFutureTriggers(t *testing.T) {
	d := New()

	var ran atomic.Int32
	d.Trigger(func() { ran.Add(1) }, 40*time.Millisecond)
	d.Dispose()

	// Triggers after disposal are ignored.
	d.Trigger(func() { ran.Add(1) }, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	if got := ran.Load(); got != 0 {
		t.Fatalf("disposed debouncer ran fn %d times, want 0", got)
	}

	// Dispose is idempotent.
	d.Dispose()
}

func TestTrigger_ZeroValueUsable(t *testing.T) {
	var d Debouncer
	defer d.Dispose()

	done := make(chan struct{})
	d.Trigger(func() { close(done) }, 10*time.Millisecond)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("zero-value debouncer never fired")
	}
}

func TestTrigger_RapidBurstRunsOnce(t *testing.T) {
	d := New()
	defer d.Dispose()

	var ran atomic.Int32
	for i := 0; i < 25; i++ {
		d.Trigger(func() { ran.Add(1) }, 50*time.Millisecond)
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := ran.Load(); got != 1 {
		t.Fatalf("burst of triggers ran fn %d times, want exactly 1", got)
	}
}
