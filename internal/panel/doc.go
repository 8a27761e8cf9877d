// Package panel implements the GTK4 layer-shell panel: a column of
// workspace buttons, the battery indicator and a clock.
//
// Every exported method that changes widgets may be called from any
// goroutine; the change is queued onto the GTK main loop with glib.IdleAdd.
// IdleAdd callbacks run in the order they were added, so updates from one
// goroutine are applied in the order they were made.
package panel
