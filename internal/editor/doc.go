// Package editor implements the editable expression model.
//
// A Model owns an atom tree, the current selection into it, and the
// configuration that shapes editing. Every user-level operation is a
// method on *Model:
//
//   - Navigation: Move, Extend, MoveUp, MoveDown, Skip, Jump, Leap
//   - Insertion: Insert, InsertText, InsertFence, AddScript
//   - Deletion: Delete
//   - Arrays: AddRowAfter, AddRowBefore, AddColumnAfter, AddColumnBefore,
//     RemoveRow, RemoveColumn
//   - Command mode: EnterCommandMode, TypeCommand, CompleteCommand and the
//     lower-level buffer primitives
//
// # Positions
//
// The selection is a path.Selection. The caret sits after the atom at the
// final offset; offset 0 is just after the sibling list sentinel. The model
// revalidates the selection after every mutation, clamping offsets and
// falling back to the root when a relation vanished.
//
// # Notifications
//
// A Listener receives ContentWillChange/ContentDidChange around every
// logical edit, SelectionWillChange/SelectionDidChange around selection
// changes, and Announce events for accessibility and audible feedback.
// Multi-step edits are batched: nested steps run with notifications
// suppressed so listeners never observe an intermediate tree. Callers can
// batch their own sequences with Batch.
//
// # Clones
//
// Clone copies the selection but shares the tree. Clones are read-only:
// they can navigate for lookahead, but any edit through a clone panics.
//
// # Thread Safety
//
// A Model is driven by one input event at a time and is not safe for
// concurrent use.
package editor
