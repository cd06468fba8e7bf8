// Package source provides the fetch collaborators the plover host can browse.
//
// A Source pairs a plover.FetchFunc with presentation metadata: which fields
// carry visual meaning (and therefore participate in signatures), which
// columns the UI draws, and which keys it offers for sorting. Three kinds
// exist:
//
//   - dir:  a directory listing, re-read on every fetch
//   - log:  the tail of a log file, with stable per-line identities
//   - http: a JSON records endpoint
//
// Sources are deliberately dumb. They return the full record set and let the
// engine do search, filter, sort and paging; a source that can pre-filter
// (the HTTP kind receives the query) is an optimization, never a
// requirement.
package source
