// Package store provides the reactive state store at the heart of the view
// engine.
//
// # Overview
//
// The Store holds named state slots. Writers publish values with Set, readers
// pull them with Get or GetCached, and interested parties register callbacks
// with Subscribe. It is the coordination point where query results meet the
// rendering layer.
//
// # Change detection
//
// Set is change-detecting: writing a value equal to the stored one (shallow
// equality by default, caller-supplied via WithEqual) is a no-op. No
// subscriber fires, and the slot timestamp does not advance. Callers may rely
// on this: "no subscriber fires on a no-op set" is part of the contract, not
// an optimization. Force overrides it.
//
// # Cache semantics
//
// GetCached(key, maxAge) returns the slot value only while the slot timestamp
// is within maxAge; past that it reports a miss rather than handing back
// stale data. Because the timestamp only advances on real change, a stream of
// identical writes does not keep a dead value artificially fresh.
//
// # Notification model
//
// Subscribers for a key are invoked synchronously inside Set, in subscription
// order. The notify phase is serialized per slot: two Sets on the same key
// never interleave their callbacks. A panicking subscriber is recovered
// per-subscriber and reported through the side-channel logger; it never stops
// later subscribers and never reaches the caller of Set.
//
// Subscribe does not invoke the callback with the current value. A consumer
// that needs the initial value calls Get once itself; this avoids
// double-initialization bugs in rendering layers.
package store
