package app

import (
	"context"
	"time"

	"github.com/ebirch/plover"
)

const (
	defaultRefreshInterval = 2 * time.Second
	maxBackoff             = 30 * time.Second

	// refreshSettle bounds how long one cycle waits for the frame its
	// refresh publishes before falling back to the retained frame.
	refreshSettle = 500 * time.Millisecond
)

// StartRefresher launches a background goroutine that re-fetches the view at
// a fixed cadence. It returns immediately. Refresh bypasses the view's fetch
// cache, so stale data never outlives one cycle. Each cycle waits for the
// outcome of the fetch it triggered; while the source keeps failing, the
// cadence backs off exponentially up to maxBackoff.
func StartRefresher(ctx context.Context, view *plover.View, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	frames := make(chan plover.Frame, 4)
	unsub := view.Subscribe(func(f plover.Frame) {
		select {
		case frames <- f:
		default:
		}
	})
	go func() {
		defer unsub()
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			drainFrames(frames)
			view.Refresh()

			if refreshFailed(ctx, view, frames) {
				failures++
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// refreshFailed reports whether the refresh just triggered ended in a fetch
// error. A refresh that changes nothing visible publishes no frame, so after
// the settle window the retained frame is judged instead; its error state
// still matches the latest completed fetch, because an error outcome and a
// success outcome always differ enough to publish.
func refreshFailed(ctx context.Context, view *plover.View, frames <-chan plover.Frame) bool {
	settle := time.NewTimer(refreshSettle)
	defer settle.Stop()

	select {
	case <-ctx.Done():
		return false
	case f := <-frames:
		return f.Err != nil
	case <-settle.C:
		frame, ok := view.LastFrame()
		return ok && frame.Err != nil
	}
}

// drainFrames discards frames published by user actions since the last
// cycle, so the next frame observed belongs to this cycle's refresh.
func drainFrames(frames <-chan plover.Frame) {
	for {
		select {
		case <-frames:
		default:
			return
		}
	}
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff. Zero failures returns the base interval unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
