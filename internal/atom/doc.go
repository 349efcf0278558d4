// Package atom defines the nodes of an editable math expression tree.
//
// An Atom is one node: a symbol, an operator, or a structural container
// such as a fraction, a radical, a delimited group or an array. Structural
// atoms own child sibling lists, either through named branches (numerator,
// superscript, ...) or through a 2-D grid of cells. An atom never has both.
//
// # Sibling Lists
//
// Every editable sibling list begins with exactly one sentinel atom of kind
// First. The sentinel anchors offset 0: a caret at offset 0 sits before the
// first real atom of the list. Constructors in this package always insert
// the sentinel, and CheckInvariants reports any list that lost it.
//
// # Branch Legality
//
// Each kind declares which branches it may carry (see Legal). Setting an
// illegal branch is a programming error and panics.
package atom
