package query

import "sync/atomic"

// SequenceGuard suppresses stale asynchronous results. Each fetch takes a
// sequence number from Next before starting; when its result arrives, Accept
// reports whether that fetch is still the latest. Results for superseded
// sequence numbers must be discarded on arrival so the consumer never
// observes an out-of-order (older) result after a newer one.
//
// Discards are expected behavior, not errors; they are counted for
// diagnostics only.
type SequenceGuard struct {
	latest atomic.Uint64
	drops  atomic.Uint64
}

// Next allocates the sequence number for a new request, superseding all
// earlier ones immediately.
func (g *SequenceGuard) Next() uint64 {
	return g.latest.Add(1)
}

// Accept reports whether a result for seq may be applied. A rejected result
// increments the drop counter.
func (g *SequenceGuard) Accept(seq uint64) bool {
	if g.latest.Load() == seq {
		return true
	}
	g.drops.Add(1)
	return false
}

// Dropped returns how many superseded results have been discarded.
func (g *SequenceGuard) Dropped() uint64 {
	return g.drops.Load()
}
