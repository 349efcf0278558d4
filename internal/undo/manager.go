package undo

import (
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/mathfield/internal/editor"
)

// Defaults for a Manager.
const (
	DefaultMaxEntries     = 1000
	DefaultCoalesceWindow = time.Second
)

// Ops whose consecutive snapshots may be merged into one undo step.
var coalescing = map[string]bool{
	editor.AnnounceInsert: true,
	editor.AnnounceDelete: true,
}

// Manager keeps the state documents of a model between logical commands.
// The last entry of the undo stack is the current state; undoing restores
// the one below it.
type Manager struct {
	mu sync.Mutex

	undoStack []string
	redoStack []string

	groupStart int
	grouping   bool

	maxEntries int
	window     time.Duration
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxEntries bounds the number of undo steps kept.
func WithMaxEntries(n int) Option {
	return func(mg *Manager) {
		if n > 0 {
			mg.maxEntries = n
		}
	}
}

// WithCoalesceWindow sets how close in time two typing steps must be to
// merge. Zero disables merging.
func WithCoalesceWindow(d time.Duration) Option {
	return func(mg *Manager) {
		mg.window = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(mg *Manager) {
		mg.now = now
	}
}

// NewManager returns an empty manager.
func NewManager(opts ...Option) *Manager {
	mg := &Manager{
		maxEntries: DefaultMaxEntries,
		window:     DefaultCoalesceWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(mg)
	}
	return mg
}

// Reset forgets all history and records the model's state as the base.
func (mg *Manager) Reset(m *editor.Model) error {
	doc, err := Capture(m, "init", mg.now())
	if err != nil {
		return err
	}
	mg.mu.Lock()
	defer mg.mu.Unlock()
	mg.undoStack = []string{doc}
	mg.redoStack = nil
	mg.grouping = false
	return nil
}

// Snapshot records the model's state after an operation named op. It
// reports false when the content did not change. Consecutive insert or
// delete steps in the same list within the coalesce window merge into
// one.
func (mg *Manager) Snapshot(m *editor.Model, op string) (bool, error) {
	doc, err := Capture(m, op, mg.now())
	if err != nil {
		return false, err
	}
	mg.mu.Lock()
	defer mg.mu.Unlock()

	if n := len(mg.undoStack); n > 0 {
		top := mg.undoStack[n-1]
		if gjson.Get(top, "value").String() == gjson.Get(doc, "value").String() {
			return false, nil
		}
		if mg.mergeable(top, doc) {
			mg.undoStack[n-1] = doc
			mg.redoStack = nil
			return true, nil
		}
	}
	mg.undoStack = append(mg.undoStack, doc)
	mg.redoStack = nil
	mg.trim()
	return true, nil
}

// mergeable reports whether doc may replace top instead of stacking.
func (mg *Manager) mergeable(top, doc string) bool {
	if mg.window <= 0 || len(mg.undoStack) < 2 {
		return false
	}
	if mg.grouping && len(mg.undoStack)-1 < mg.groupStart {
		return false
	}
	a := gjson.GetMany(top, "op", "selection", "time")
	b := gjson.GetMany(doc, "op", "selection", "time")
	if a[0].String() != b[0].String() || !coalescing[a[0].String()] {
		return false
	}
	if b[2].Time().Sub(a[2].Time()) > mg.window {
		return false
	}
	return near(a[1].String(), b[1].String())
}

func (mg *Manager) trim() {
	if excess := len(mg.undoStack) - 1 - mg.maxEntries; excess > 0 {
		mg.undoStack = mg.undoStack[excess:]
		mg.groupStart = max(0, mg.groupStart-excess)
	}
}

// Undo restores the state before the last recorded step.
func (mg *Manager) Undo(m *editor.Model) error {
	mg.mu.Lock()
	if len(mg.undoStack) < 2 {
		mg.mu.Unlock()
		return ErrNothingToUndo
	}
	n := len(mg.undoStack)
	cur, prev := mg.undoStack[n-1], mg.undoStack[n-2]
	mg.mu.Unlock()

	if err := Restore(m, prev); err != nil {
		return err
	}

	mg.mu.Lock()
	mg.undoStack = mg.undoStack[:n-1]
	mg.redoStack = append(mg.redoStack, cur)
	mg.mu.Unlock()
	return nil
}

// Redo reapplies the last undone step.
func (mg *Manager) Redo(m *editor.Model) error {
	mg.mu.Lock()
	if len(mg.redoStack) == 0 {
		mg.mu.Unlock()
		return ErrNothingToRedo
	}
	n := len(mg.redoStack)
	next := mg.redoStack[n-1]
	mg.mu.Unlock()

	if err := Restore(m, next); err != nil {
		return err
	}

	mg.mu.Lock()
	mg.redoStack = mg.redoStack[:n-1]
	mg.undoStack = append(mg.undoStack, next)
	mg.mu.Unlock()
	return nil
}

// CanUndo reports whether a step can be undone.
func (mg *Manager) CanUndo() bool {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return len(mg.undoStack) > 1
}

// CanRedo reports whether a step can be redone.
func (mg *Manager) CanRedo() bool {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return len(mg.redoStack) > 0
}

// UndoCount returns the number of steps that can be undone.
func (mg *Manager) UndoCount() int {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return max(0, len(mg.undoStack)-1)
}

// RedoCount returns the number of steps that can be redone.
func (mg *Manager) RedoCount() int {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return len(mg.redoStack)
}

// BeginGroup starts a group: the steps recorded until EndGroup undo as
// one.
func (mg *Manager) BeginGroup() {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if mg.grouping {
		return
	}
	mg.grouping = true
	mg.groupStart = len(mg.undoStack)
}

// EndGroup closes the group, keeping only its final state.
func (mg *Manager) EndGroup() {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if !mg.grouping {
		return
	}
	mg.grouping = false
	n := len(mg.undoStack)
	if n-mg.groupStart > 1 {
		mg.undoStack = append(mg.undoStack[:mg.groupStart], mg.undoStack[n-1])
	}
}

// History returns the state documents from oldest to current.
func (mg *Manager) History() []State {
	mg.mu.Lock()
	docs := append([]string(nil), mg.undoStack...)
	mg.mu.Unlock()

	out := make([]State, 0, len(docs))
	for _, doc := range docs {
		if s, err := Decode(doc); err == nil {
			out = append(out, s)
		}
	}
	return out
}
