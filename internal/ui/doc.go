// Package ui renders the plover browser as a terminal interface built on
// bubbletea.
//
// The model owns a rowCache that executes the engine's row plans literally:
// a Reuse action keeps the previously rendered string, a Rebuild action
// re-renders the row from its record. Frames arrive over a buffered channel
// fed by the view subscription and are folded into the model on the
// bubbletea loop, so no rendering state needs locking.
//
// Key handling is modal. Plain mode drives pagination, sorting and refresh;
// pressing / enters search mode, where every keystroke is forwarded to the
// view and the engine's debouncer decides when a query actually runs.
package ui
