package atom

// Separators used when an array is flattened into inline content.
const (
	CellSeparator = ","
	RowSeparator  = ";"
)

// NewArray creates an array atom. Ragged rows are padded so every row has
// the same number of cells, and every cell receives its sentinel.
func NewArray(env string, rows [][][]*Atom) *Atom {
	a := &Atom{Kind: KindArray, Mode: ModeMath, Environment: env}
	cols := 1
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if len(rows) == 0 {
		rows = [][][]*Atom{{nil}}
	}
	a.array = make([][][]*Atom, len(rows))
	for r, row := range rows {
		a.array[r] = make([][]*Atom, cols)
		for c := 0; c < cols; c++ {
			var cell []*Atom
			if c < len(row) {
				cell = row[c]
			}
			a.array[r][c] = NewList(cell...)
		}
	}
	return a
}

// RowCount returns the number of rows.
func (a *Atom) RowCount() int {
	return len(a.array)
}

// ColCount returns the number of columns.
func (a *Atom) ColCount() int {
	if len(a.array) == 0 {
		return 0
	}
	return len(a.array[0])
}

// CellCount returns the number of cells.
func (a *Atom) CellCount() int {
	return a.RowCount() * a.ColCount()
}

// Cell returns the sibling list at (row, col), or nil if out of range.
func (a *Atom) Cell(row, col int) []*Atom {
	if row < 0 || row >= a.RowCount() || col < 0 || col >= a.ColCount() {
		return nil
	}
	cell := a.array[row][col]
	if len(cell) == 0 || cell[0].Kind != KindFirst {
		cell = NewList(cell...)
		a.array[row][col] = cell
	}
	return cell
}

// SetCell replaces the sibling list at (row, col).
func (a *Atom) SetCell(row, col int, list []*Atom) {
	if a.array == nil {
		panic("atom: SetCell on " + a.Kind.String())
	}
	a.array[row][col] = NewList(list...)
}

// CellIndex converts (row, col) to a row-major cell index.
func (a *Atom) CellIndex(row, col int) int {
	return row*a.ColCount() + col
}

// CellRowCol converts a row-major cell index to (row, col).
func (a *Atom) CellRowCol(index int) (row, col int) {
	cols := a.ColCount()
	if cols == 0 {
		return 0, 0
	}
	return index / cols, index % cols
}

// InsertRow inserts an empty row before index at.
func (a *Atom) InsertRow(at int) {
	row := make([][]*Atom, a.ColCount())
	for c := range row {
		row[c] = NewList()
	}
	a.array = append(a.array, nil)
	copy(a.array[at+1:], a.array[at:])
	a.array[at] = row
}

// InsertColumn inserts an empty column before index at.
func (a *Atom) InsertColumn(at int) {
	for r := range a.array {
		row := append(a.array[r], nil)
		copy(row[at+1:], row[at:])
		row[at] = NewList()
		a.array[r] = row
	}
}

// RemoveRow removes row r. It refuses to remove the last row.
func (a *Atom) RemoveRow(r int) bool {
	if a.RowCount() <= 1 || r < 0 || r >= a.RowCount() {
		return false
	}
	a.array = append(a.array[:r], a.array[r+1:]...)
	return true
}

// RemoveColumn removes column c. It refuses to remove the last column.
func (a *Atom) RemoveColumn(c int) bool {
	if a.ColCount() <= 1 || c < 0 || c >= a.ColCount() {
		return false
	}
	for r := range a.array {
		a.array[r] = append(a.array[r][:c], a.array[r][c+1:]...)
	}
	return true
}

// ColumnIsEmpty reports whether every cell of column c has no content.
func (a *Atom) ColumnIsEmpty(c int) bool {
	for r := 0; r < a.RowCount(); r++ {
		if len(Content(a.Cell(r, c))) > 0 {
			return false
		}
	}
	return true
}

// LinearizeRow returns the content of row r as inline atoms, cells
// separated by CellSeparator punctuation. The result has no sentinel.
func (a *Atom) LinearizeRow(r int) []*Atom {
	var out []*Atom
	for c := 0; c < a.ColCount(); c++ {
		if c > 0 {
			out = append(out, New(KindPunct, CellSeparator))
		}
		out = append(out, Content(a.Cell(r, c))...)
	}
	return trimSeparators(out)
}

// Linearize flattens the whole grid into inline atoms, rows separated by
// RowSeparator punctuation.
func (a *Atom) Linearize() []*Atom {
	var out []*Atom
	for r := 0; r < a.RowCount(); r++ {
		row := a.LinearizeRow(r)
		if len(row) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, New(KindPunct, RowSeparator))
		}
		out = append(out, row...)
	}
	return out
}

// trimSeparators drops trailing separators left by empty cells.
func trimSeparators(atoms []*Atom) []*Atom {
	for len(atoms) > 0 {
		last := atoms[len(atoms)-1]
		if last.Kind != KindPunct || last.Value != CellSeparator {
			break
		}
		atoms = atoms[:len(atoms)-1]
	}
	return atoms
}
