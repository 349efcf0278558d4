package editor

import "github.com/dshills/mathfield/internal/atom"

// simplifyParens replaces every parenthesis group whose only content is a
// fraction by the fraction itself, in atoms and in all their branches and
// cells. The textual meaning is unchanged.
func simplifyParens(atoms []*atom.Atom) []*atom.Atom {
	out := make([]*atom.Atom, len(atoms))
	for i, a := range atoms {
		simplifyChildren(a)
		out[i] = a
		if !isParenGroup(a) {
			continue
		}
		if len(a.PresentBranches()) != 1 {
			continue
		}
		body := atom.Content(a.Branch(atom.Body))
		if len(body) == 1 && len(a.Branch(atom.Body)) == 2 && body[0].Kind == atom.KindFraction {
			out[i] = body[0]
		}
	}
	return out
}

func simplifyChildren(a *atom.Atom) {
	for _, b := range a.PresentBranches() {
		list := a.Branch(b)
		if len(list) > 1 {
			a.SetBranch(b, append(list[:1:1], simplifyParens(list[1:])...))
		}
	}
	for r := 0; r < a.RowCount(); r++ {
		for c := 0; c < a.ColCount(); c++ {
			cell := a.Cell(r, c)
			if len(cell) > 1 {
				a.SetCell(r, c, append(cell[:1:1], simplifyParens(cell[1:])...))
			}
		}
	}
}

func isParenGroup(a *atom.Atom) bool {
	return a != nil && a.Kind == atom.KindLeftRight && a.LeftDelim == "(" &&
		(a.RightDelim == ")" || a.RightDelim == atom.UndeterminedDelim)
}
