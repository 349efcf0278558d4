package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// arrayCell locates the innermost array cell enclosing the caret. base is
// the path to the array atom itself.
type arrayCell struct {
	base   path.Path
	arr    *atom.Atom
	row    int
	col    int
	offset int
}

func (m *Model) arrayCell() (arrayCell, bool) {
	p := m.sel.Path
	for i := len(p) - 1; i >= 1; i-- {
		rel := p[i].Relation
		if !rel.IsCell() {
			continue
		}
		base := p.Truncate(i)
		arr := m.atomAt(base)
		if !arr.IsArray() {
			return arrayCell{}, false
		}
		return arrayCell{base: base, arr: arr, row: rel.Row, col: rel.Col, offset: p[i].Offset}, true
	}
	return arrayCell{}, false
}

// AddRowAfter inserts an empty row below the caret's row and moves the
// caret into it.
func (m *Model) AddRowAfter() bool { return m.addRow(1) }

// AddRowBefore inserts an empty row above the caret's row.
func (m *Model) AddRowBefore() bool { return m.addRow(0) }

// AddColumnAfter inserts an empty column right of the caret's column.
func (m *Model) AddColumnAfter() bool { return m.addColumn(1) }

// AddColumnBefore inserts an empty column left of the caret's column.
func (m *Model) AddColumnBefore() bool { return m.addColumn(0) }

func (m *Model) addRow(delta int) bool {
	return m.edit("", func() func() []*atom.Atom {
		ac, ok := m.arrayCell()
		if !ok {
			return nil
		}
		return func() []*atom.Atom {
			at := ac.row + delta
			m.touch(ac.base.Push(path.CellRel(ac.row, ac.col), 0))
			ac.arr.InsertRow(at)
			m.sel = path.Caret(ac.base.Push(path.CellRel(at, 0), 0))
			return nil
		}
	})
}

func (m *Model) addColumn(delta int) bool {
	return m.edit("", func() func() []*atom.Atom {
		ac, ok := m.arrayCell()
		if !ok {
			return nil
		}
		return func() []*atom.Atom {
			at := ac.col + delta
			m.touch(ac.base.Push(path.CellRel(ac.row, ac.col), 0))
			ac.arr.InsertColumn(at)
			m.sel = path.Caret(ac.base.Push(path.CellRel(ac.row, at), 0))
			return nil
		}
	})
}

// RemoveRow removes the caret's row. It refuses to remove the last row.
func (m *Model) RemoveRow() bool {
	return m.edit("", func() func() []*atom.Atom {
		ac, ok := m.arrayCell()
		if !ok || ac.arr.RowCount() <= 1 {
			return nil
		}
		return func() []*atom.Atom {
			m.touch(ac.base.Push(path.CellRel(ac.row, ac.col), 0))
			ac.arr.RemoveRow(ac.row)
			row := min(ac.row, ac.arr.RowCount()-1)
			m.sel = m.cellCaret(ac, row, ac.col)
			return nil
		}
	})
}

// RemoveColumn removes the caret's column. It refuses to remove the last
// column.
func (m *Model) RemoveColumn() bool {
	return m.edit("", func() func() []*atom.Atom {
		ac, ok := m.arrayCell()
		if !ok || ac.arr.ColCount() <= 1 {
			return nil
		}
		return func() []*atom.Atom {
			m.touch(ac.base.Push(path.CellRel(ac.row, ac.col), 0))
			ac.arr.RemoveColumn(ac.col)
			col := min(ac.col, ac.arr.ColCount()-1)
			m.sel = m.cellCaret(ac, ac.row, col)
			return nil
		}
	})
}

// cellCaret returns a caret in cell (row, col) at the old offset, clamped.
func (m *Model) cellCaret(ac arrayCell, row, col int) path.Selection {
	cell := ac.arr.Cell(row, col)
	return path.Caret(ac.base.Push(path.CellRel(row, col), clamp(ac.offset, 0, len(cell)-1)))
}
