package atom

// Content returns the atoms of a sibling list that carry content: the
// sentinel and placeholders are dropped.
func Content(list []*Atom) []*Atom {
	out := make([]*Atom, 0, len(list))
	for _, a := range list {
		if a == nil || a.Kind == KindFirst || a.Kind == KindPlaceholder {
			continue
		}
		out = append(out, a)
	}
	return out
}

// IsEmptyList reports whether a sibling list holds nothing but its
// sentinel.
func IsEmptyList(list []*Atom) bool {
	for _, a := range list {
		if a.Kind != KindFirst {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the atom and all its descendants.
func (a *Atom) Clone() *Atom {
	if a == nil {
		return nil
	}
	c := *a
	if a.branches != nil {
		c.branches = make(map[Branch][]*Atom, len(a.branches))
		for b, list := range a.branches {
			c.branches[b] = CloneList(list)
		}
	}
	if a.array != nil {
		c.array = make([][][]*Atom, len(a.array))
		for r, row := range a.array {
			c.array[r] = make([][]*Atom, len(row))
			for col, cell := range row {
				c.array[r][col] = CloneList(cell)
			}
		}
	}
	return &c
}

// CloneList deep-copies a list of atoms.
func CloneList(list []*Atom) []*Atom {
	if list == nil {
		return nil
	}
	out := make([]*Atom, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

// Equal reports whether two atoms are structurally equal. Cached verbatim
// forms are not compared.
func Equal(a, b *Atom) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Mode != b.Mode || a.Value != b.Value ||
		a.Command != b.Command || a.LeftDelim != b.LeftDelim ||
		a.RightDelim != b.RightDelim || a.Environment != b.Environment ||
		a.Suggestion != b.Suggestion || a.Error != b.Error ||
		a.Style != b.Style {
		return false
	}
	if len(a.branches) != len(b.branches) {
		return false
	}
	for br, list := range a.branches {
		other, ok := b.branches[br]
		if !ok || !ListEqual(list, other) {
			return false
		}
	}
	if (a.array == nil) != (b.array == nil) || len(a.array) != len(b.array) {
		return false
	}
	for r := range a.array {
		if len(a.array[r]) != len(b.array[r]) {
			return false
		}
		for c := range a.array[r] {
			if !ListEqual(a.array[r][c], b.array[r][c]) {
				return false
			}
		}
	}
	return true
}

// ListEqual reports whether two sibling lists are structurally equal.
func ListEqual(a, b []*Atom) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Children returns every child sibling list: branches in navigation order,
// then cells in row-major order.
func (a *Atom) Children() [][]*Atom {
	var out [][]*Atom
	for _, b := range a.PresentBranches() {
		out = append(out, a.branches[b])
	}
	for r := 0; r < a.RowCount(); r++ {
		for c := 0; c < a.ColCount(); c++ {
			out = append(out, a.Cell(r, c))
		}
	}
	return out
}

// Walk visits every atom of list and its descendants in document order.
// Returning false from fn skips the atom's children.
func Walk(list []*Atom, fn func(a *Atom) bool) {
	for _, a := range list {
		if !fn(a) {
			continue
		}
		for _, child := range a.Children() {
			Walk(child, fn)
		}
	}
}

// Filter returns every atom in list, recursively, for which pred holds.
func Filter(list []*Atom, pred func(a *Atom) bool) []*Atom {
	var out []*Atom
	Walk(list, func(a *Atom) bool {
		if pred(a) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// IsPlaceholder is a Filter predicate.
func IsPlaceholder(a *Atom) bool {
	return a.Kind == KindPlaceholder
}
