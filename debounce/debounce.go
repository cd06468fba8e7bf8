// Package debounce coalesces a rapid stream of trigger calls into a single
// delayed invocation, the usual treatment for search-as-you-type input:
// rapid keystrokes produce exactly one query execution some delay after the
// last keystroke, never one per keystroke.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules at most one pending invocation at a time. Each Trigger
// cancels any not-yet-fired predecessor; intermediate functions are fully
// discarded, not queued. The zero value is ready to use.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	disposed bool
}

// New returns a ready Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Trigger schedules fn to run after delay, cancelling any previously
// scheduled invocation. Only the most recent fn ever executes. A non-positive
// delay still defers fn to the timer goroutine rather than running it inline,
// so callers never re-enter themselves through Trigger.
func (d *Debouncer) Trigger(fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	if delay < 0 {
		delay = 0
	}
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.disposed || d.gen != gen {
			// Superseded or disposed between scheduling and firing.
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending invocation without disposing the Debouncer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Dispose cancels pending work and makes the Debouncer inert: later Triggers
// are ignored. Safe to call more than once. A timer that already fired its
// goroutine observes the disposed flag and returns without running fn, so
// disposal is a hard guarantee rather than best effort.
func (d *Debouncer) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disposed = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
