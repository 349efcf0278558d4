// Package path addresses positions and ranges inside an atom tree.
//
// A Path is a sequence of segments, each naming a relation (a branch of
// the parent atom, or a cell of its array) and an offset into the sibling
// list found there. The caret sits immediately after the atom at the
// offset of the last segment; offset 0 is just after the list sentinel.
//
// A Selection adds a signed extent: the anchor is at the offset, the focus
// at offset+extent. Paths and selections are values. Methods that derive a
// new path never write to the receiver's backing array, so a path can be
// held across a tree mutation and revalidated afterwards.
//
// The textual form is stable and used to persist caret positions:
//
//	body:3/numer:0#-1
//	body:1/cell1,0:2
package path
