// Package app is the composition root for the plover application.
//
// # Overview
//
// Run wires the pieces together: it loads host configuration and user
// preferences, builds the configured data source, constructs a view engine
// around the source's fetch function, launches the background refresher and
// hands control to the terminal UI until the context is cancelled.
//
// # Refresh Behavior
//
// The refresher re-fetches the view at a fixed cadence (default: 2 seconds).
// Refresh bypasses the view's fetch cache, so every tick observes the source
// anew. Consecutive fetch failures stretch the cadence exponentially up to
// 30 seconds; the first success snaps it back to the base interval. Fetch
// errors are never fatal after startup: the UI keeps the last good rows on
// screen and surfaces the failure.
//
// # Error Handling
//
// Fatal errors returned from Run:
//
//   - configuration file present but invalid
//   - unknown source kind or unusable source parameters
//   - invalid startup filter expression
//
// Everything after startup is recoverable and handled downstream.
package app
