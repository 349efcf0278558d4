package atom

import "fmt"

// UndeterminedDelim marks a right delimiter that smart-fence input has not
// resolved yet.
const UndeterminedDelim = "?"

// Atom is one node of the expression tree.
type Atom struct {
	Kind    Kind
	Mode    Mode
	Value   string // literal symbol or display body
	Command string // originating command name, e.g. `\frac`

	// Delimited groups.
	LeftDelim  string
	RightDelim string

	// Arrays.
	Environment string

	// Command tokens.
	Suggestion bool
	Error      bool

	// CaptureSelection makes the atom behave as a unit: navigation and
	// deletion never enter its branches.
	CaptureSelection bool

	// SkipBoundary means leaving the atom's body also steps over the
	// atom itself.
	SkipBoundary bool

	Style Style

	branches map[Branch][]*Atom
	array    [][][]*Atom

	verbatim      string
	verbatimValid bool
}

// New creates a math-mode atom of the given kind.
func New(kind Kind, value string) *Atom {
	return &Atom{Kind: kind, Mode: ModeMath, Value: value}
}

// NewFirst creates a sibling list sentinel.
func NewFirst() *Atom {
	return &Atom{Kind: KindFirst}
}

// NewPlaceholder creates an empty-slot stand-in.
func NewPlaceholder() *Atom {
	return &Atom{Kind: KindPlaceholder, Mode: ModeMath, Command: `\placeholder`}
}

// NewText creates a text-mode character atom.
func NewText(value string) *Atom {
	return &Atom{Kind: KindTextOrd, Mode: ModeText, Value: value}
}

// NewCommandToken creates one character of an in-progress command name.
func NewCommandToken(r rune) *Atom {
	return &Atom{Kind: KindCommand, Mode: ModeCommand, Value: string(r)}
}

// NewList returns a sibling list holding atoms, prefixed by a sentinel.
// If atoms already starts with a sentinel it is reused.
func NewList(atoms ...*Atom) []*Atom {
	if len(atoms) > 0 && atoms[0] != nil && atoms[0].Kind == KindFirst {
		return atoms
	}
	list := make([]*Atom, 0, len(atoms)+1)
	list = append(list, NewFirst())
	return append(list, atoms...)
}

// NewRoot creates the root of an expression tree.
func NewRoot(body ...*Atom) *Atom {
	a := &Atom{Kind: KindRoot, Mode: ModeMath}
	a.SetBranch(Body, NewList(body...))
	return a
}

// NewFraction creates a fraction. Empty branches receive a placeholder.
func NewFraction(numer, denom []*Atom) *Atom {
	a := &Atom{Kind: KindFraction, Mode: ModeMath, Command: `\frac`}
	a.SetBranch(Numer, NewList(orPlaceholder(numer)...))
	a.SetBranch(Denom, NewList(orPlaceholder(denom)...))
	return a
}

// NewRadical creates a square root, with an optional index.
func NewRadical(index, body []*Atom) *Atom {
	a := &Atom{Kind: KindRadical, Mode: ModeMath, Command: `\sqrt`}
	a.SetBranch(Body, NewList(orPlaceholder(body)...))
	if len(index) > 0 {
		a.SetBranch(Index, NewList(index...))
	}
	return a
}

// NewLeftRight creates a delimited group.
func NewLeftRight(left, right string, body []*Atom) *Atom {
	a := &Atom{Kind: KindLeftRight, Mode: ModeMath, LeftDelim: left, RightDelim: right}
	a.SetBranch(Body, NewList(body...))
	return a
}

func orPlaceholder(atoms []*Atom) []*Atom {
	if len(Content(atoms)) == 0 && !hasPlaceholder(atoms) {
		return []*Atom{NewPlaceholder()}
	}
	return atoms
}

func hasPlaceholder(atoms []*Atom) bool {
	for _, a := range atoms {
		if a.Kind == KindPlaceholder {
			return true
		}
	}
	return false
}

// Branch returns the sibling list of branch b, or nil if absent.
func (a *Atom) Branch(b Branch) []*Atom {
	if a == nil || a.branches == nil {
		return nil
	}
	return a.branches[b]
}

// HasBranch reports whether branch b is present.
func (a *Atom) HasBranch(b Branch) bool {
	if a == nil || a.branches == nil {
		return false
	}
	_, ok := a.branches[b]
	return ok
}

// SetBranch replaces the sibling list of branch b. A sentinel is
// prepended when missing. Panics if b is not legal for the atom's kind.
func (a *Atom) SetBranch(b Branch, list []*Atom) {
	if !Legal(a.Kind, b) {
		panic(fmt.Sprintf("atom: branch %q is not legal on %s", b, a.Kind))
	}
	if a.branches == nil {
		a.branches = make(map[Branch][]*Atom)
	}
	a.branches[b] = NewList(list...)
}

// EnsureBranch returns branch b, creating an empty list if absent.
func (a *Atom) EnsureBranch(b Branch) []*Atom {
	if list := a.Branch(b); list != nil {
		if len(list) == 0 || list[0].Kind != KindFirst {
			a.SetBranch(b, list)
		}
		return a.branches[b]
	}
	a.SetBranch(b, nil)
	return a.branches[b]
}

// RemoveBranch drops branch b.
func (a *Atom) RemoveBranch(b Branch) {
	if a.branches != nil {
		delete(a.branches, b)
	}
}

// PresentBranches returns the branches this atom carries, in navigation
// order.
func (a *Atom) PresentBranches() []Branch {
	if a == nil || len(a.branches) == 0 {
		return nil
	}
	out := make([]Branch, 0, len(a.branches))
	for _, b := range Branches {
		if _, ok := a.branches[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// IsCompound reports whether the atom owns any child sibling list.
func (a *Atom) IsCompound() bool {
	return a != nil && (len(a.branches) > 0 || a.array != nil)
}

// IsArray reports whether the atom owns a grid of cells.
func (a *Atom) IsArray() bool {
	return a != nil && a.array != nil
}

// SetVerbatim caches the serialized form of the atom.
func (a *Atom) SetVerbatim(s string) {
	a.verbatim = s
	a.verbatimValid = true
}

// Verbatim returns the cached serialized form, if it is still valid.
func (a *Atom) Verbatim() (string, bool) {
	return a.verbatim, a.verbatimValid
}

// InvalidateVerbatim marks the cached serialized form as stale.
func (a *Atom) InvalidateVerbatim() {
	a.verbatim = ""
	a.verbatimValid = false
}

// String returns a short debugging representation.
func (a *Atom) String() string {
	if a == nil {
		return "<nil>"
	}
	switch {
	case a.Value != "":
		return fmt.Sprintf("%s(%q)", a.Kind, a.Value)
	case a.Kind == KindLeftRight:
		return fmt.Sprintf("%s(%s..%s)", a.Kind, a.LeftDelim, a.RightDelim)
	default:
		return a.Kind.String()
	}
}
