// Package undo records the history of a model as a stack of state
// documents and restores them on undo and redo.
//
// A state document is a small JSON object holding the serialized value and
// selection of the model after a logical command. A Recorder subscribes to
// the model's event hub and snapshots once per command; consecutive
// keystrokes in the same list merge into one step when they fall inside the
// coalesce window.
//
//	hub := event.NewHub()
//	hub.Attach(m)
//	rec, err := undo.NewRecorder(m, hub, undo.NewManager(), logger)
//	...
//	rec.Undo()
package undo
