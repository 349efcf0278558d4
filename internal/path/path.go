package path

import (
	"fmt"

	"github.com/dshills/mathfield/internal/atom"
)

// Relation names the sibling list a segment descends into: either a named
// branch of the parent, or one cell of the parent's array.
type Relation struct {
	Branch atom.Branch
	Row    int
	Col    int
}

// BranchRel returns the relation for a named branch.
func BranchRel(b atom.Branch) Relation {
	return Relation{Branch: b}
}

// CellRel returns the relation for an array cell.
func CellRel(row, col int) Relation {
	return Relation{Row: row, Col: col}
}

// IsCell reports whether the relation addresses an array cell.
func (r Relation) IsCell() bool {
	return r.Branch == ""
}

// String returns the textual form of the relation.
func (r Relation) String() string {
	if r.IsCell() {
		return fmt.Sprintf("cell%d,%d", r.Row, r.Col)
	}
	return string(r.Branch)
}

// Segment is one step of a path.
type Segment struct {
	Relation Relation
	Offset   int
}

// String returns "relation:offset".
func (s Segment) String() string {
	return fmt.Sprintf("%s:%d", s.Relation, s.Offset)
}

// Path locates a sibling list and a position within it.
type Path []Segment

// Root returns the path to offset in the root body.
func Root(offset int) Path {
	return Path{{Relation: BranchRel(atom.Body), Offset: offset}}
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Last returns the final segment. The path must not be empty.
func (p Path) Last() Segment {
	return p[len(p)-1]
}

// Depth returns the number of segments.
func (p Path) Depth() int {
	return len(p)
}

// WithOffset returns a copy whose final offset is replaced.
func (p Path) WithOffset(offset int) Path {
	out := p.Clone()
	out[len(out)-1].Offset = offset
	return out
}

// WithRelation returns a copy whose final relation is replaced.
func (p Path) WithRelation(rel Relation, offset int) Path {
	out := p.Clone()
	out[len(out)-1] = Segment{Relation: rel, Offset: offset}
	return out
}

// Push returns a copy extended by one segment.
func (p Path) Push(rel Relation, offset int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Relation: rel, Offset: offset})
}

// Pop returns a copy without its final segment.
func (p Path) Pop() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1].Clone()
}

// Truncate returns a copy holding the first n segments.
func (p Path) Truncate(n int) Path {
	if n > len(p) {
		n = len(p)
	}
	return p[:n:n].Clone()
}

// Equal reports whether two paths are segment-wise identical.
func (p Path) Equal(q Path) bool {
	return Distance(p, q) == 0
}

// String returns the textual form without an extent.
func (p Path) String() string {
	return Selection{Path: p}.String()
}
