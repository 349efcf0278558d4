package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// Root returns the root atom.
func (m *Model) Root() *atom.Atom {
	return m.root
}

// Selection returns a copy of the current selection.
func (m *Model) Selection() path.Selection {
	return m.sel.Clone()
}

// Path returns a copy of the current path.
func (m *Model) Path() path.Path {
	return m.sel.Path.Clone()
}

// Siblings returns the sibling list the selection is in, or nil if the
// path does not resolve.
func (m *Model) Siblings() []*atom.Atom {
	_, list, ok := m.resolve(m.sel.Path)
	if !ok {
		return nil
	}
	return list
}

// Parent returns the atom owning the current sibling list.
func (m *Model) Parent() *atom.Atom {
	parent, _, _ := m.resolve(m.sel.Path)
	return parent
}

// Ancestor returns the nth atom above the current sibling list: 1 is the
// parent, Depth() is the root. It returns nil when n is out of range.
func (m *Model) Ancestor(n int) *atom.Atom {
	depth := len(m.sel.Path)
	if n < 1 || n > depth {
		return nil
	}
	return m.atomAt(m.sel.Path.Truncate(depth - n))
}

// Depth returns the number of path segments.
func (m *Model) Depth() int {
	return len(m.sel.Path)
}

// Relation returns the relation of the current sibling list.
func (m *Model) Relation() path.Relation {
	if len(m.sel.Path) == 0 {
		return path.Relation{}
	}
	return m.sel.Path.Last().Relation
}

// AnchorOffset returns the anchor offset.
func (m *Model) AnchorOffset() int { return m.sel.Anchor() }

// FocusOffset returns the focus offset.
func (m *Model) FocusOffset() int { return m.sel.Focus() }

// StartOffset returns the lower of anchor and focus.
func (m *Model) StartOffset() int { return m.sel.Start() }

// EndOffset returns the higher of anchor and focus.
func (m *Model) EndOffset() int { return m.sel.End() }

// IsCollapsed reports whether the selection is a caret.
func (m *Model) IsCollapsed() bool { return m.sel.IsCollapsed() }

// Sibling returns the atom at StartOffset()+k in the current list, or nil.
// Sibling(0) is the atom just before the caret.
func (m *Model) Sibling(k int) *atom.Atom {
	list := m.Siblings()
	i := m.sel.Start() + k
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// Anchor returns the atom at the anchor offset.
func (m *Model) Anchor() *atom.Atom {
	list := m.Siblings()
	i := m.sel.Anchor()
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// SelectedAtoms returns the atoms covered by the selection.
func (m *Model) SelectedAtoms() []*atom.Atom {
	list := m.Siblings()
	start, end := m.sel.Start(), m.sel.End()
	if m.sel.IsCollapsed() || end >= len(list) {
		return nil
	}
	return append([]*atom.Atom(nil), list[start+1:end+1]...)
}

// placeholderSelected reports whether the selection is exactly one
// placeholder.
func (m *Model) placeholderSelected() bool {
	atoms := m.SelectedAtoms()
	return len(atoms) == 1 && atoms[0].Kind == atom.KindPlaceholder
}

// PathOf locates an atom in the tree. The returned path ends at the
// atom's own offset.
func (m *Model) PathOf(a *atom.Atom) (path.Path, bool) {
	return findAtom(m.root, nil, a)
}

func findAtom(node *atom.Atom, prefix path.Path, target *atom.Atom) (path.Path, bool) {
	for _, rel := range relations(node) {
		list, _ := childList(node, rel)
		for i, a := range list {
			if i == 0 {
				continue
			}
			p := prefix.Push(rel, i)
			if a == target {
				return p, true
			}
			if a.IsCompound() {
				if found, ok := findAtom(a, p, target); ok {
					return found, true
				}
			}
		}
	}
	return nil, false
}

// relations returns every child relation of a, in navigation order.
func relations(a *atom.Atom) []path.Relation {
	var out []path.Relation
	for _, b := range a.PresentBranches() {
		out = append(out, path.BranchRel(b))
	}
	for r := 0; r < a.RowCount(); r++ {
		for c := 0; c < a.ColCount(); c++ {
			out = append(out, path.CellRel(r, c))
		}
	}
	return out
}
