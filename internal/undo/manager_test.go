package undo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mathfield/internal/editor"
)

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// typeStep types text into m and records it with snap.
func typeStep(t *testing.T, m *editor.Model, snap func() (bool, error), text string) {
	t.Helper()
	if err := m.Type(text); err != nil {
		t.Fatalf("Type(%q): %v", text, err)
	}
	if _, err := snap(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
}

func history(mg *Manager) []string {
	var out []string
	for _, s := range mg.History() {
		out = append(out, s.Op+":"+s.Value)
	}
	return out
}

func TestManager_UndoRedo(t *testing.T) {
	c := newClock()
	mg := NewManager(WithClock(c.now), WithCoalesceWindow(0))
	m := newModel(t, "")
	if err := mg.Reset(m); err != nil {
		t.Fatal(err)
	}
	if mg.CanUndo() || mg.CanRedo() {
		t.Fatal("fresh manager has history")
	}
	snap := func() (bool, error) { return mg.Snapshot(m, "insert") }
	typeStep(t, m, snap, "a")
	typeStep(t, m, snap, "b")

	if diff := cmp.Diff([]string{"init:", "insert:a", "insert:ab"}, history(mg)); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}

	if err := mg.Undo(m); err != nil {
		t.Fatal(err)
	}
	if v := valueOf(t, m); v != "a" {
		t.Errorf("after undo value = %q, want a", v)
	}
	if s := m.SelectionString(); s != "body:1" {
		t.Errorf("after undo selection = %q, want body:1", s)
	}
	if err := mg.Undo(m); err != nil {
		t.Fatal(err)
	}
	if v := valueOf(t, m); v != "" {
		t.Errorf("after second undo value = %q", v)
	}
	if err := mg.Undo(m); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("undo past the base: %v", err)
	}
	if mg.RedoCount() != 2 {
		t.Errorf("RedoCount = %d, want 2", mg.RedoCount())
	}

	if err := mg.Redo(m); err != nil {
		t.Fatal(err)
	}
	if v := valueOf(t, m); v != "a" {
		t.Errorf("after redo value = %q, want a", v)
	}

	typeStep(t, m, snap, "z")
	if mg.CanRedo() {
		t.Error("a new step kept the redo stack")
	}
	if err := mg.Redo(m); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo = %v", err)
	}
	if v := valueOf(t, m); v != "az" {
		t.Errorf("value = %q, want az", v)
	}
}

func TestManager_UnchangedContent(t *testing.T) {
	mg := NewManager()
	m := newModel(t, "x")
	mg.Reset(m)
	m.Move(-1)
	recorded, err := mg.Snapshot(m, "edit")
	if err != nil {
		t.Fatal(err)
	}
	if recorded || mg.UndoCount() != 0 {
		t.Errorf("a selection change was recorded as a step")
	}
}

func TestManager_Coalesce(t *testing.T) {
	c := newClock()
	mg := NewManager(WithClock(c.now), WithCoalesceWindow(time.Second))
	m := newModel(t, "")
	mg.Reset(m)
	snap := func() (bool, error) { return mg.Snapshot(m, "insert") }

	typeStep(t, m, snap, "a")
	c.advance(200 * time.Millisecond)
	typeStep(t, m, snap, "b")
	c.advance(200 * time.Millisecond)
	typeStep(t, m, snap, "c")
	if mg.UndoCount() != 1 {
		t.Errorf("typing within the window made %d steps, want 1", mg.UndoCount())
	}

	c.advance(2 * time.Second)
	typeStep(t, m, snap, "d")
	if mg.UndoCount() != 2 {
		t.Errorf("typing after a pause made %d steps, want 2", mg.UndoCount())
	}

	if _, err := mg.Snapshot(m, "edit"); err != nil {
		t.Fatal(err)
	}
	m.Type("e")
	mg.Snapshot(m, "delete")
	if mg.UndoCount() != 3 {
		t.Errorf("a different op merged: %d steps", mg.UndoCount())
	}

	mg.Undo(m)
	mg.Undo(m)
	if v := valueOf(t, m); v != "abc" {
		t.Errorf("value = %q, want abc", v)
	}
	mg.Undo(m)
	if v := valueOf(t, m); v != "" {
		t.Errorf("value = %q, want empty", v)
	}
}

func TestManager_CoalesceNeedsSameList(t *testing.T) {
	c := newClock()
	mg := NewManager(WithClock(c.now))
	m := newModel(t, `\frac{}{}`)
	mg.Reset(m)

	m.SetSelectionString("body:1/numer:0")
	m.Type("1")
	mg.Snapshot(m, "insert")
	m.SetSelectionString("body:1/denom:0")
	m.Type("2")
	mg.Snapshot(m, "insert")
	if mg.UndoCount() != 2 {
		t.Errorf("edits in different lists merged: %d steps", mg.UndoCount())
	}
}

func TestManager_MaxEntries(t *testing.T) {
	mg := NewManager(WithMaxEntries(2), WithCoalesceWindow(0))
	m := newModel(t, "")
	mg.Reset(m)
	for _, s := range []string{"a", "b", "c", "d"} {
		m.Type(s)
		mg.Snapshot(m, "insert")
	}
	if mg.UndoCount() != 2 {
		t.Fatalf("UndoCount = %d, want 2", mg.UndoCount())
	}
	mg.Undo(m)
	mg.Undo(m)
	if v := valueOf(t, m); v != "ab" {
		t.Errorf("oldest reachable value = %q, want ab", v)
	}
	if mg.CanUndo() {
		t.Error("undo reached a trimmed step")
	}
}

func TestManager_Group(t *testing.T) {
	mg := NewManager(WithCoalesceWindow(0))
	m := newModel(t, "")
	mg.Reset(m)

	m.Type("a")
	mg.Snapshot(m, "insert")

	mg.BeginGroup()
	for _, s := range []string{"b", "c", "d"} {
		m.Type(s)
		mg.Snapshot(m, "insert")
	}
	mg.EndGroup()

	if diff := cmp.Diff([]string{"init:", "insert:a", "insert:abcd"}, history(mg)); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	mg.Undo(m)
	if v := valueOf(t, m); v != "a" {
		t.Errorf("undoing a group left %q, want a", v)
	}
}
