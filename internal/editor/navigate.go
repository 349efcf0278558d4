package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// navigate runs a selection command. A command being typed is completed
// or discarded first. step then computes the destination from the
// current selection and reports false when there is nowhere to go, which
// announces a plonk.
func (m *Model) navigate(event string, step func() (path.Selection, bool)) bool {
	if !m.readOnly && (m.mode == atom.ModeCommand || m.hasSuggestions()) {
		outer := m.begin()
		defer m.end(outer)
		m.removeSuggestions()
		if m.mode == atom.ModeCommand && !m.CompleteCommand(false) {
			m.ExitCommandMode()
		}
	}
	prior := m.Clone()
	sel, ok := step()
	if !ok {
		m.report(AnnouncePlonk, nil, nil)
		return false
	}
	m.land(sel)
	m.report(event, prior, nil)
	return true
}

// Move moves the caret one position in direction dir (negative is
// backward). A non-collapsed selection collapses to its start or end
// instead, unless it is a single placeholder.
func (m *Model) Move(dir int) bool {
	return m.navigate(AnnounceMove, func() (path.Selection, bool) {
		sel := m.sel
		if !sel.IsCollapsed() && !m.placeholderSelected() {
			return collapseTo(sel, dir), true
		}
		var next path.Path
		var ok bool
		if dir > 0 {
			next, ok = m.stepForward(sel.Path.WithOffset(sel.End()))
		} else {
			next, ok = m.stepBackward(sel.Path.WithOffset(sel.Start()))
		}
		if !ok {
			return sel, false
		}
		return m.settle(path.Caret(next)), true
	})
}

// Extend moves the focus one atom in direction dir, keeping the anchor.
// Leaving the current list selects the enclosing atom as a whole.
func (m *Model) Extend(dir int) bool {
	return m.navigate(AnnounceMove, func() (path.Selection, bool) {
		return m.extendStep(m.sel, dir)
	})
}

func (m *Model) extendStep(sel path.Selection, dir int) (path.Selection, bool) {
	dir = sign(dir)
	_, list, ok := m.resolve(sel.Path)
	if !ok {
		return sel, false
	}
	focus := sel.Focus() + dir
	if focus >= 0 && focus < len(list) {
		return path.Selection{Path: sel.Path.Clone(), Extent: sel.Extent + dir}, true
	}
	if len(sel.Path) == 1 {
		return sel, false
	}
	up := sel.Path.Pop()
	c := up.Last().Offset
	if focus < 0 {
		return path.Selection{Path: up.WithOffset(c), Extent: -1}, true
	}
	return path.Selection{Path: up.WithOffset(c - 1), Extent: 1}, true
}

// SelectAll selects the whole expression.
func (m *Model) SelectAll() bool {
	return m.navigate(AnnounceMove, func() (path.Selection, bool) {
		body := m.root.Branch(atom.Body)
		return path.Selection{Path: path.Root(0), Extent: len(body) - 1}, true
	})
}

// Collapse collapses the selection to its end (dir > 0) or start.
func (m *Model) Collapse(dir int) bool {
	if m.sel.IsCollapsed() {
		return false
	}
	return m.navigate(AnnounceMove, func() (path.Selection, bool) {
		return collapseTo(m.sel, dir), true
	})
}

// Jump moves to the start (dir < 0) or end of the expression. With
// extend, the selection grows from the current anchor, expressed in the
// root list.
func (m *Model) Jump(dir int, extend bool) bool {
	return m.navigate(AnnounceMove, func() (path.Selection, bool) {
		body := m.root.Branch(atom.Body)
		target := 0
		if dir > 0 {
			target = len(body) - 1
		}
		if !extend {
			next := path.Caret(path.Root(target))
			if next.Equal(m.sel) {
				return next, false
			}
			return m.settle(next), true
		}
		anchor := m.sel.Anchor()
		if len(m.sel.Path) > 1 {
			anchor = m.sel.Path[0].Offset
			if dir > 0 {
				anchor--
			}
		}
		next := path.Selection{Path: path.Root(anchor), Extent: target - anchor}
		if next.Equal(m.sel) {
			return next, false
		}
		return next, true
	})
}

func collapseTo(sel path.Selection, dir int) path.Selection {
	off := sel.Start()
	if dir > 0 {
		off = sel.End()
	}
	return path.Caret(sel.Path.WithOffset(off))
}

// stepForward returns the caret position one step after p, descending
// into compound atoms and climbing out at list ends.
func (m *Model) stepForward(p path.Path) (path.Path, bool) {
	parent, list, ok := m.resolve(p)
	if !ok {
		return nil, false
	}
	off := p.Last().Offset
	if off < len(list)-1 {
		next := list[off+1]
		if enterable(next) {
			if rel, ok := firstRelation(next); ok {
				return p.WithOffset(off+1).Push(rel, 0), true
			}
		}
		return p.WithOffset(off + 1), true
	}
	if len(p) == 1 {
		return nil, false
	}
	if rel, ok := nextRelation(parent, p.Last().Relation); ok {
		return p.WithRelation(rel, 0), true
	}
	out := p.Pop()
	if parent.SkipBoundary {
		if further, ok := m.stepForward(out); ok {
			return further, true
		}
	}
	return out, true
}

// stepBackward is the mirror image of stepForward.
func (m *Model) stepBackward(p path.Path) (path.Path, bool) {
	parent, list, ok := m.resolve(p)
	if !ok {
		return nil, false
	}
	off := p.Last().Offset
	if off >= 1 {
		cur := list[off]
		if enterable(cur) {
			if rel, ok := lastRelation(cur); ok {
				child, _ := childList(cur, rel)
				return p.WithOffset(off).Push(rel, len(child)-1), true
			}
		}
		return p.WithOffset(off - 1), true
	}
	if len(p) == 1 {
		return nil, false
	}
	if rel, ok := prevRelation(parent, p.Last().Relation); ok {
		child, _ := childList(parent, rel)
		return p.WithRelation(rel, len(child)-1), true
	}
	out := p.Pop()
	out = out.WithOffset(out.Last().Offset - 1)
	if parent.SkipBoundary {
		if further, ok := m.stepBackward(out); ok {
			return further, true
		}
	}
	return out, true
}

func enterable(a *atom.Atom) bool {
	return a.IsCompound() && !a.CaptureSelection
}

func firstRelation(a *atom.Atom) (path.Relation, bool) {
	rels := relations(a)
	if len(rels) == 0 {
		return path.Relation{}, false
	}
	return rels[0], true
}

func lastRelation(a *atom.Atom) (path.Relation, bool) {
	rels := relations(a)
	if len(rels) == 0 {
		return path.Relation{}, false
	}
	return rels[len(rels)-1], true
}

// nextRelation returns the relation after rel on a: the next present
// branch, or the next cell in row-major order.
func nextRelation(a *atom.Atom, rel path.Relation) (path.Relation, bool) {
	rels := relations(a)
	for i, r := range rels {
		if r == rel && i+1 < len(rels) {
			return rels[i+1], true
		}
	}
	return path.Relation{}, false
}

func prevRelation(a *atom.Atom, rel path.Relation) (path.Relation, bool) {
	rels := relations(a)
	for i, r := range rels {
		if r == rel && i > 0 {
			return rels[i-1], true
		}
	}
	return path.Relation{}, false
}

// settle selects a placeholder the caret would otherwise sit against: a
// list holding only a placeholder, or a caret just after one.
func (m *Model) settle(sel path.Selection) path.Selection {
	if !sel.IsCollapsed() {
		return sel
	}
	_, list, ok := m.resolve(sel.Path)
	if !ok {
		return sel
	}
	off := sel.Anchor()
	switch {
	case len(list) == 2 && list[1].Kind == atom.KindPlaceholder:
		return path.Selection{Path: sel.Path.WithOffset(0), Extent: 1}
	case off >= 1 && off < len(list) && list[off].Kind == atom.KindPlaceholder:
		return path.Selection{Path: sel.Path.WithOffset(off - 1), Extent: 1}
	}
	return sel
}

// land commits a navigation result, keeping empty slots visible: a list
// left empty behind the caret gets a placeholder (or, for an optional
// index or script, is removed), and an empty list the caret arrives in
// gets a placeholder which is then selected.
func (m *Model) land(sel path.Selection) {
	if m.readOnly {
		m.sel = m.normalize(sel)
		return
	}
	leave := m.vacated(m.sel.Path, sel.Path)
	enter := m.emptyNonRoot(sel.Path)
	if !leave && !enter {
		m.setSelection(sel)
		return
	}
	outer := m.begin()
	defer m.end(outer)
	if leave {
		m.fillVacated(m.sel.Path)
	}
	if enter {
		sel = m.occupy(sel.Path)
	}
	m.sel = sel
}

// vacated reports whether moving from p to q leaves an empty list behind.
func (m *Model) vacated(p, q path.Path) bool {
	return path.Distance(p, q) > 1 && m.emptyNonRoot(p)
}

func (m *Model) emptyNonRoot(p path.Path) bool {
	if len(p) < 2 {
		return false
	}
	_, list, ok := m.resolve(p)
	return ok && atom.IsEmptyList(list)
}

// fillVacated drops an empty optional branch at p or plugs it with a
// placeholder.
func (m *Model) fillVacated(p path.Path) {
	owner, _, _ := m.resolve(p)
	rel := p.Last().Relation
	if !rel.IsCell() && optionalBranch(owner, rel.Branch) {
		m.touch(p)
		owner.RemoveBranch(rel.Branch)
		return
	}
	m.splice(p, 1, 0, atom.NewPlaceholder())
}

// optionalBranch reports whether b can be dropped from a without changing
// its meaning.
func optionalBranch(a *atom.Atom, b atom.Branch) bool {
	switch {
	case b == atom.Index:
		return true
	case b.IsScript():
		if a.Kind != atom.KindSubSup {
			return true
		}
		return a.HasBranch(atom.Superscript) && a.HasBranch(atom.Subscript)
	}
	return false
}

// occupy plugs the empty list at p with a placeholder and selects it.
func (m *Model) occupy(p path.Path) path.Selection {
	m.splice(p, 1, 0, atom.NewPlaceholder())
	return path.Selection{Path: p.WithOffset(0), Extent: 1}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
