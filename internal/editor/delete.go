package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// Delete deletes in direction dir: backward when negative, forward when
// positive. A non-collapsed selection is deleted whatever the direction;
// with dir 0 nothing else is. It announces a plonk when there is nothing
// to delete.
func (m *Model) Delete(dir int) bool {
	m.mustWrite()
	if next, ok := m.planEnter(sign(dir)); ok {
		return m.navigate(AnnounceMove, func() (path.Selection, bool) {
			return path.Caret(next), true
		})
	}
	ok := m.edit(AnnounceDelete, func() func() []*atom.Atom {
		apply := m.planDelete(sign(dir))
		if apply == nil || m.mode != atom.ModeCommand {
			return apply
		}
		return func() []*atom.Atom {
			removed := apply()
			m.refreshCommand()
			return removed
		}
	})
	if !ok && dir != 0 {
		m.report(AnnouncePlonk, nil, nil)
	}
	return ok
}

// deleteSelection removes the selected atoms and collapses the caret to
// where they were.
func (m *Model) deleteSelection() []*atom.Atom {
	p := m.sel.Path
	start, end := m.sel.Start(), m.sel.End()
	removed := m.splice(p, start+1, end-start)
	m.sel = path.Caret(p.WithOffset(start))
	return removed
}

func (m *Model) planDelete(dir int) func() []*atom.Atom {
	if !m.sel.IsCollapsed() {
		return m.deleteSelection
	}
	if dir == 0 {
		return nil
	}
	p := m.sel.Path
	owner, list, ok := m.resolve(p)
	if !ok {
		return nil
	}
	off := p.Last().Offset
	if dir < 0 && off >= 1 {
		return m.planDeleteAtom(p, list[off], off, -1)
	}
	if dir > 0 && off < len(list)-1 {
		return m.planDeleteAtom(p, list[off+1], off+1, 1)
	}
	if len(p) == 1 {
		return nil
	}
	rel := p.Last().Relation
	switch {
	case rel.IsCell():
		if dir < 0 {
			return m.planCellBackward(p, owner)
		}
		return m.planCellForward(p, owner)
	case rel.Branch.IsScript():
		return m.planPromoteScript(p, owner, dir)
	}
	return m.planUnwrap(p, owner, dir)
}

// planEnter reports where the caret lands when deleting in direction dir
// only steps into the compound atom next to it. Nothing is deleted then,
// so the step is a plain move. Command mode keeps the caret in its run and
// is left to planDelete.
func (m *Model) planEnter(dir int) (path.Path, bool) {
	if dir == 0 || m.mode == atom.ModeCommand || !m.sel.IsCollapsed() {
		return nil, false
	}
	p := m.sel.Path
	_, list, ok := m.resolve(p)
	if !ok {
		return nil, false
	}
	i := p.Last().Offset
	if dir > 0 {
		i++
	}
	if i < 1 || i >= len(list) {
		return nil, false
	}
	if a := list[i]; m.reopens(a, dir) || !enterable(a) {
		return nil, false
	}
	return m.stepInto(p, dir), true
}

func (m *Model) stepInto(p path.Path, dir int) path.Path {
	var next path.Path
	if dir < 0 {
		next, _ = m.stepBackward(p)
	} else {
		next, _ = m.stepForward(p)
	}
	return next
}

// reopens reports whether deleting backward into a closed group reopens it
// instead of entering it.
func (m *Model) reopens(a *atom.Atom, dir int) bool {
	return dir < 0 && m.settings.SmartFence && a.Kind == atom.KindLeftRight &&
		!a.CaptureSelection && a.RightDelim != atom.UndeterminedDelim
}

// planDeleteAtom handles the atom at index i next to the caret. A compound
// atom is entered rather than deleted; a closed group is first reopened
// when smart fence is on.
func (m *Model) planDeleteAtom(p path.Path, a *atom.Atom, i, dir int) func() []*atom.Atom {
	if m.reopens(a, dir) {
		return func() []*atom.Atom {
			m.touch(p)
			a.InvalidateVerbatim()
			a.RightDelim = atom.UndeterminedDelim
			body := a.EnsureBranch(atom.Body)
			m.sel = path.Caret(p.WithOffset(i).Push(path.BranchRel(atom.Body), len(body)-1))
			return nil
		}
	}
	if enterable(a) {
		return func() []*atom.Atom {
			m.sel = path.Caret(m.stepInto(p, dir))
			return nil
		}
	}
	return func() []*atom.Atom {
		removed := m.splice(p, i, 1)
		m.sel = path.Caret(p.WithOffset(i - 1))
		return removed
	}
}
