// Package plover is a differential data-view engine: a reactive state store
// combined with signature-based row reuse, a debounced query pipeline, and a
// pagination controller, for presenting large, frequently-changing tabular
// datasets without rebuilding the entire visible structure on every update.
//
// # Architecture
//
// A user action flows through the engine in one direction:
//
//	keystroke / navigation / refresh
//	        │
//	        ▼
//	  debounce.Debouncer      (search input only)
//	        │
//	        ▼
//	  fetch collaborator      (host-supplied, async, sequence-guarded)
//	        │
//	        ▼
//	  query.Run               (filter conjunction + stable sort)
//	        │
//	        ▼
//	  page.Paginator          (clamped slice)
//	        │
//	        ▼
//	  diff.Reconciler         (signature compare, reuse/rebuild plan)
//	        │
//	        ▼
//	  store.Store             (publish Frame, notify on real change only)
//
// The View type ties the stages together and exposes the public operations:
// SetSearchText, SetSort, SetFilter, GotoPage, Refresh, Subscribe.
//
// # Division of labor
//
// The engine never draws anything. The host supplies an asynchronous fetch
// function and a renderer; the renderer receives a plan of per-position
// Reuse/Rebuild actions and is responsible for turning them into actual UI
// element updates. It must not second-guess the reuse decisions.
//
// # Concurrency
//
// Fetches run on their own goroutines and rejoin through a sequence-number
// staleness guard: a superseded fetch's result is discarded on arrival, so
// the consumer never observes an older result after a newer one. Everything
// downstream of the fetch boundary is synchronous and serialized per view.
//
// See cmd/plover and internal/ for a complete terminal host built on this
// package.
package plover
