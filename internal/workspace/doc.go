// Package workspace keeps the panel's view of compositor workspaces in sync.
// It owns the canonical model (active workspace, window placement, per-slot
// visibility and icon), a reducer that folds one normalized message at a
// time into that model, and the single-consumer loop that pushes the
// resulting effects to a Sink.
package workspace
