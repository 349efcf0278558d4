package editor

import (
	"sort"
	"strings"
	"testing"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/latex"
	"github.com/dshills/mathfield/internal/path"
)

// recorder captures every notification a model sends.
type recorder struct {
	events    []string
	announced []announced
}

type announced struct {
	event string
	atoms []*atom.Atom
}

func (r *recorder) ContentWillChange(*Model)   { r.events = append(r.events, "content.will") }
func (r *recorder) ContentDidChange(*Model)    { r.events = append(r.events, "content.did") }
func (r *recorder) SelectionWillChange(*Model) { r.events = append(r.events, "selection.will") }
func (r *recorder) SelectionDidChange(*Model)  { r.events = append(r.events, "selection.did") }

func (r *recorder) Announce(event string, _ *Model, atoms []*atom.Atom) {
	r.announced = append(r.announced, announced{event: event, atoms: atoms})
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) announcements() []string {
	out := make([]string, len(r.announced))
	for i, a := range r.announced {
		out[i] = a.event
	}
	return out
}

// fakeSuggestions maps command names to templates and suggests them in
// alphabetical order.
type fakeSuggestions map[string]string

func (f fakeSuggestions) Suggest(partial string) []Suggestion {
	var out []Suggestion
	for name, tmpl := range f {
		if strings.HasPrefix(name, partial) && len(partial) > 1 {
			out = append(out, Suggestion{Match: name, Value: tmpl})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Match < out[j].Match })
	return out
}

// newTestModel returns a model wired to the latex parser and serializer,
// holding src with the caret at the end.
func newTestModel(t *testing.T, src string, opts ...Option) *Model {
	t.Helper()
	base := []Option{
		WithParser(latex.NewParser()),
		WithSerializer(latex.NewSerializer()),
	}
	m := New(append(base, opts...)...)
	if src != "" {
		if err := m.SetValue(src); err != nil {
			t.Fatalf("SetValue(%q): %v", src, err)
		}
	}
	return m
}

// listen attaches a fresh recorder.
func listen(m *Model) *recorder {
	r := &recorder{}
	m.SetListener(r)
	return r
}

func value(t *testing.T, m *Model) string {
	t.Helper()
	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	return v
}

func expectValue(t *testing.T, m *Model, want string) {
	t.Helper()
	if got := value(t, m); got != want {
		t.Errorf("value = %q, want %q", got, want)
	}
}

func expectSelection(t *testing.T, m *Model, want string) {
	t.Helper()
	if got := m.SelectionString(); got != want {
		t.Errorf("selection = %q, want %q", got, want)
	}
}

func selectAt(t *testing.T, m *Model, s string) {
	t.Helper()
	m.SetSelection(path.MustParse(s))
	if got := m.SelectionString(); got != s {
		t.Fatalf("selection %q did not resolve, got %q", s, got)
	}
}

func typeAll(t *testing.T, m *Model, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		if err := m.Type(in); err != nil {
			t.Fatalf("Type(%q): %v", in, err)
		}
	}
}

// checkModel verifies the tree invariants and that the selection lies
// within its sibling list.
func checkModel(t *testing.T, m *Model) {
	t.Helper()
	if err := atom.CheckInvariants(m.Root()); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	list := m.Siblings()
	if list == nil {
		t.Fatalf("selection %s does not resolve", m.SelectionString())
	}
	if m.StartOffset() < 0 || m.StartOffset() > m.EndOffset() || m.EndOffset() > len(list)-1 {
		t.Fatalf("selection %s out of range for %d siblings", m.SelectionString(), len(list))
	}
}

func ords(values ...string) []*atom.Atom {
	out := make([]*atom.Atom, len(values))
	for i, v := range values {
		out[i] = atom.New(atom.KindOrd, v)
	}
	return out
}

func values(atoms []*atom.Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = a.Value
	}
	return out
}
