package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mathfield/internal/atom"
)

func TestEditingSession(t *testing.T) {
	m := newTestModel(t, "")
	steps := []struct {
		name string
		do   func() bool
		want string
	}{
		{"type x", func() bool { return m.Type("x") == nil }, "x"},
		{"superscript", func() bool { return m.AddScript(atom.Superscript) }, "x^{\\placeholder{}}"},
		{"fill it", func() bool { return m.Type("2") == nil }, "x^2"},
		{"leave it", func() bool { return m.Move(1) }, "x^2"},
		{"plus", func() bool { return m.Type("+") == nil }, "x^2+"},
		{"fraction", func() bool { return m.Type(`\frac{#?}{#?}`) == nil }, `x^2+\frac{\placeholder{}}{\placeholder{}}`},
		{"numerator", func() bool { return m.Type("1") == nil }, `x^2+\frac{1}{\placeholder{}}`},
		{"leap", func() bool { return m.Leap(1) }, `x^2+\frac{1}{\placeholder{}}`},
		{"denominator", func() bool { return m.Type("y") == nil }, `x^2+\frac{1}{y}`},
		{"unwrap", func() bool { m.Move(-1); return m.Delete(-1) }, `x^2+1y`},
		{"select all", func() bool { return m.SelectAll() }, `x^2+1y`},
		{"wrap", func() bool { return m.Type("(") == nil }, `\left(x^2+1y\right)`},
		{"clear", func() bool { m.SelectAll(); return m.Delete(0) }, ""},
	}
	for _, s := range steps {
		if !s.do() {
			t.Fatalf("%s: operation failed", s.name)
		}
		if got := value(t, m); got != s.want {
			t.Fatalf("%s: value = %q, want %q", s.name, got, s.want)
		}
		checkModel(t, m)
	}
}

func TestSentinelSurvivesDeletes(t *testing.T) {
	m := newTestModel(t, `\frac{a}{\sqrt{b}}`)
	for i := 0; i < 20; i++ {
		m.Delete(-1)
		checkModel(t, m)
	}
	expectValue(t, m, "")
	if body := m.Root().Branch(atom.Body); len(body) != 1 || body[0].Kind != atom.KindFirst {
		t.Errorf("root body = %v", body)
	}
}

func TestInsertItemsThenDeleteThem(t *testing.T) {
	m := newTestModel(t, "ab")
	selectAt(t, m, "body:1")
	before := atom.CloneList(m.Siblings())

	m.Insert(ords("x", "y", "z"), InsertOptions{Selection: SelectItem})
	expectSelection(t, m, "body:1#3")
	m.Delete(0)

	if diff := cmp.Diff(values(before), values(m.Siblings())); diff != "" {
		t.Errorf("siblings changed (-want +got):\n%s", diff)
	}
	if !atom.ListEqual(before, m.Siblings()) {
		t.Error("siblings not structurally equal")
	}
	expectSelection(t, m, "body:1")
}

func TestRemoveOnlyRowIsRefused(t *testing.T) {
	m := newTestModel(t, `\begin{matrix}a&b\end{matrix}`)
	selectAt(t, m, "body:1/cell0,1:0")
	before := m.Root().Clone()
	if m.RemoveRow() {
		t.Fatal("removing the only row succeeded")
	}
	if !atom.Equal(before, m.Root()) {
		t.Error("array changed")
	}
}

func TestNotificationsPerLogicalCommand(t *testing.T) {
	m := newTestModel(t, "abc")
	selectAt(t, m, "body:1#2")
	r := listen(m)
	typeAll(t, m, "z")
	want := []string{"content.will", "selection.will", "content.did", "selection.did"}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{AnnounceDelete, AnnounceReplacement}, r.announcements()); diff != "" {
		t.Errorf("announcements (-want +got):\n%s", diff)
	}
}

func TestPriorSnapshotIsReadOnly(t *testing.T) {
	m := newTestModel(t, "ab")
	var prior *Model
	m.SetListener(&snapshotListener{onAnnounce: func(p *Model) { prior = p }})
	m.Delete(-1)
	if prior == nil {
		t.Fatal("no snapshot announced")
	}
	if got := prior.SelectionString(); got != "body:2" {
		t.Errorf("snapshot selection = %q, want body:2", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("snapshot accepted an edit")
		}
	}()
	prior.Delete(-1)
}

type snapshotListener struct {
	NopListener
	onAnnounce func(*Model)
}

func (l *snapshotListener) Announce(_ string, prior *Model, _ []*atom.Atom) {
	if prior != nil {
		l.onAnnounce(prior)
	}
}
