package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// MoveUp moves between denominator and numerator, between the body and
// the limits of an over/under atom, and between array rows. With extend,
// the enclosing atom is selected instead.
func (m *Model) MoveUp(extend bool) bool {
	return m.navigate(AnnounceMoveUp, func() (path.Selection, bool) {
		return m.verticalStep(-1, extend)
	})
}

// MoveDown is the downward counterpart of MoveUp.
func (m *Model) MoveDown(extend bool) bool {
	return m.navigate(AnnounceMoveDown, func() (path.Selection, bool) {
		return m.verticalStep(1, extend)
	})
}

func (m *Model) verticalStep(dir int, extend bool) (path.Selection, bool) {
	p := m.sel.Path
	for depth := len(p); depth >= 2; depth-- {
		seg := p[depth-1]
		base := p.Truncate(depth - 1)
		owner := m.atomAt(base)
		rel, ok := verticalTarget(owner, seg.Relation, dir)
		if !ok {
			continue
		}
		if extend {
			c := base.Last().Offset
			return path.Selection{Path: base.WithOffset(c - 1), Extent: 1}, true
		}
		target, _ := childList(owner, rel)
		off := clamp(seg.Offset, 0, len(target)-1)
		if depth == len(p) {
			off = clamp(m.sel.Start(), 0, len(target)-1)
		}
		return m.settle(path.Caret(base.Push(rel, off))), true
	}
	if !extend {
		return m.sel, false
	}
	_, list, _ := m.resolve(p)
	focus := 0
	if dir > 0 {
		focus = len(list) - 1
	}
	next := path.Selection{Path: p.Clone(), Extent: focus - m.sel.Anchor()}
	return next, !next.Equal(m.sel)
}

// verticalTarget returns the relation above (dir < 0) or below rel on a.
func verticalTarget(a *atom.Atom, rel path.Relation, dir int) (path.Relation, bool) {
	if a == nil {
		return path.Relation{}, false
	}
	if rel.IsCell() {
		row := rel.Row + dir
		if !a.IsArray() || row < 0 || row >= a.RowCount() {
			return path.Relation{}, false
		}
		return path.CellRel(row, rel.Col), true
	}
	var order []atom.Branch
	switch {
	case a.Kind == atom.KindFraction && !rel.Branch.IsScript():
		order = []atom.Branch{atom.Numer, atom.Denom}
	case a.Kind == atom.KindOverUnder && !rel.Branch.IsScript():
		order = []atom.Branch{atom.Overscript, atom.Body, atom.Underscript}
	case rel.Branch.IsScript():
		order = []atom.Branch{atom.Superscript, atom.Subscript}
	}
	for i, b := range order {
		if b != rel.Branch {
			continue
		}
		for j := i + dir; j >= 0 && j < len(order); j += dir {
			if a.HasBranch(order[j]) {
				return path.BranchRel(order[j]), true
			}
		}
	}
	return path.Relation{}, false
}
