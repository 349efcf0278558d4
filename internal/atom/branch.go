package atom

// Branch names a child sibling list of an atom.
type Branch string

// Recognized branch names.
const (
	Body        Branch = "body"
	Numer       Branch = "numer"
	Denom       Branch = "denom"
	Index       Branch = "index"
	Overscript  Branch = "overscript"
	Underscript Branch = "underscript"
	Superscript Branch = "superscript"
	Subscript   Branch = "subscript"
)

// Branches lists every branch in navigation order: moving right through a
// compound atom visits its present branches in this order.
var Branches = []Branch{Overscript, Index, Numer, Body, Denom, Underscript, Subscript, Superscript}

// IsScript reports whether b is a superscript or subscript.
func (b Branch) IsScript() bool {
	return b == Superscript || b == Subscript
}

// Valid reports whether b is a recognized branch name.
func (b Branch) Valid() bool {
	for _, x := range Branches {
		if x == b {
			return true
		}
	}
	return false
}

// Rank returns the position of b in navigation order, or -1.
func (b Branch) Rank() int {
	for i, x := range Branches {
		if x == b {
			return i
		}
	}
	return -1
}

// Structural branches per kind, excluding scripts.
var structural = map[Kind][]Branch{
	KindRoot:      {Body},
	KindFraction:  {Numer, Denom},
	KindRadical:   {Index, Body},
	KindLeftRight: {Body},
	KindGroup:     {Body},
	KindBox:       {Body},
	KindOverUnder: {Overscript, Body, Underscript},
}

// Kinds that can never carry scripts.
var noScripts = map[Kind]bool{
	KindRoot:        true,
	KindFirst:       true,
	KindArray:       true,
	KindPlaceholder: true,
	KindCommand:     true,
	KindComposition: true,
	KindSpace:       true,
}

// Legal reports whether an atom of kind k may carry branch b.
func Legal(k Kind, b Branch) bool {
	if b.IsScript() {
		return !noScripts[k]
	}
	for _, x := range structural[k] {
		if x == b {
			return true
		}
	}
	return false
}

// StructuralBranches returns the non-script branches kind k carries.
func StructuralBranches(k Kind) []Branch {
	return structural[k]
}
