package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// planUnwrap dissolves the compound owning the list p names, at the edge
// of that list. The content of its branches replaces it in navigation
// order; its scripts, if any, follow on a bare script atom. The caret
// lands between the content before and after the edge.
func (m *Model) planUnwrap(p path.Path, owner *atom.Atom, dir int) func() []*atom.Atom {
	return func() []*atom.Atom {
		cur := p.Last().Relation.Branch
		var content []*atom.Atom
		before := 0
		scripts := atom.New(atom.KindSubSup, "")
		for _, b := range owner.PresentBranches() {
			list := atom.Content(owner.Branch(b))
			if b.IsScript() {
				scripts.SetBranch(b, atom.CloneList(owner.Branch(b)))
				continue
			}
			content = append(content, list...)
			if b.Rank() < cur.Rank() || (dir > 0 && b == cur) {
				before += len(list)
			}
		}
		if scripts.IsCompound() {
			content = append(content, scripts)
		}
		up := p.Pop()
		c := up.Last().Offset
		m.splice(up, c, 1, content...)
		m.sel = path.Caret(up.WithOffset(c - 1 + before))
		return []*atom.Atom{owner}
	}
}

// planPromoteScript moves the content of the script holding the caret
// after its carrier and removes the script. A bare script atom left with
// no scripts is replaced by the content.
func (m *Model) planPromoteScript(p path.Path, carrier *atom.Atom, dir int) func() []*atom.Atom {
	return func() []*atom.Atom {
		b := p.Last().Relation.Branch
		content := atom.Content(carrier.Branch(b))
		up := p.Pop()
		c := up.Last().Offset
		m.touch(p)
		carrier.RemoveBranch(b)
		at, count := c+1, 0
		if carrier.Kind == atom.KindSubSup && !carrier.IsCompound() {
			at, count = c, 1
		}
		m.splice(up, at, count, content...)
		off := at - 1
		if dir > 0 {
			off += len(content)
		}
		m.sel = path.Caret(up.WithOffset(off))
		return nil
	}
}

// planCellBackward applies the array rules for backspace at the start of
// a cell.
func (m *Model) planCellBackward(p path.Path, arr *atom.Atom) func() []*atom.Atom {
	rel := p.Last().Relation
	up := p.Pop()
	c := up.Last().Offset
	switch {
	case rel.Row == 0 && rel.Col == 0:
		return func() []*atom.Atom {
			content := arr.Linearize()
			m.splice(up, c, 1, content...)
			m.sel = path.Caret(up.WithOffset(c - 1))
			return []*atom.Atom{arr}
		}
	case rel.Col == 0:
		return func() []*atom.Atom {
			last := arr.ColCount() - 1
			row := arr.LinearizeRow(rel.Row)
			end := m.mergeInto(up, arr, rel.Row-1, last, row)
			arr.RemoveRow(rel.Row)
			m.sel = path.Caret(up.Push(path.CellRel(rel.Row-1, last), end))
			return nil
		}
	}
	cur := atom.Content(arr.Cell(rel.Row, rel.Col))
	prev := arr.Cell(rel.Row, rel.Col-1)
	if len(cur) == 0 && !arr.ColumnIsEmpty(rel.Col) {
		return func() []*atom.Atom {
			m.sel = path.Caret(up.Push(path.CellRel(rel.Row, rel.Col-1), len(prev)-1))
			return nil
		}
	}
	return func() []*atom.Atom {
		end := m.mergeInto(up, arr, rel.Row, rel.Col-1, cur)
		arr.SetCell(rel.Row, rel.Col, nil)
		if arr.ColumnIsEmpty(rel.Col) {
			arr.RemoveColumn(rel.Col)
		}
		m.sel = path.Caret(up.Push(path.CellRel(rel.Row, rel.Col-1), end))
		return nil
	}
}

// planCellForward applies the array rules for forward delete at the end
// of a cell.
func (m *Model) planCellForward(p path.Path, arr *atom.Atom) func() []*atom.Atom {
	rel := p.Last().Relation
	up := p.Pop()
	lastCol, lastRow := arr.ColCount()-1, arr.RowCount()-1
	switch {
	case rel.Col < lastCol:
		return func() []*atom.Atom {
			next := atom.Content(arr.Cell(rel.Row, rel.Col+1))
			end := m.mergeInto(up, arr, rel.Row, rel.Col, next)
			arr.SetCell(rel.Row, rel.Col+1, nil)
			if arr.ColumnIsEmpty(rel.Col + 1) {
				arr.RemoveColumn(rel.Col + 1)
			}
			m.sel = path.Caret(up.Push(rel, end))
			return nil
		}
	case rel.Row < lastRow:
		return func() []*atom.Atom {
			end := m.mergeInto(up, arr, rel.Row, rel.Col, arr.LinearizeRow(rel.Row+1))
			arr.RemoveRow(rel.Row + 1)
			m.sel = path.Caret(up.Push(rel, end))
			return nil
		}
	}
	return nil
}

// mergeInto appends atoms to cell (row, col) of the array at up and
// returns the offset of the old end of that cell.
func (m *Model) mergeInto(up path.Path, arr *atom.Atom, row, col int, atoms []*atom.Atom) int {
	m.touch(up.Push(path.CellRel(row, col), 0))
	arr.InvalidateVerbatim()
	cell := arr.Cell(row, col)
	end := len(cell) - 1
	merged := make([]*atom.Atom, 0, len(cell)+len(atoms))
	merged = append(merged, cell...)
	merged = append(merged, atoms...)
	arr.SetCell(row, col, merged)
	return end
}
