package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

type skipClass int

const (
	classOther skipClass = iota
	classDigit
	classLetter
	classWord
	classSpace
	classOperator
)

// Skip moves over a run of similar atoms: a number, a letter run, a text
// word, a run of operators, or a matched pair of flat delimiters. At a
// list boundary it behaves like Move or Extend.
func (m *Model) Skip(dir int, extend bool) bool {
	dir = sign(dir)
	if dir == 0 {
		return false
	}
	_, list, ok := m.resolve(m.sel.Path)
	if !ok {
		return false
	}
	pos := m.sel.Focus()
	if !extend {
		pos = m.sel.Start()
		if dir > 0 {
			pos = m.sel.End()
		}
	}
	if (dir > 0 && pos >= len(list)-1) || (dir < 0 && pos <= 0) {
		if extend {
			return m.Extend(dir)
		}
		return m.Move(dir)
	}
	return m.navigate(AnnounceMove, func() (path.Selection, bool) {
		next := skipRun(list, pos, dir)
		if extend {
			return path.Selection{Path: m.sel.Path.Clone(), Extent: next - m.sel.Anchor()}, true
		}
		return path.Caret(m.sel.Path.WithOffset(next)), true
	})
}

// skipRun returns the caret offset reached by skipping from pos.
func skipRun(list []*atom.Atom, pos, dir int) int {
	first := list[pos]
	if dir > 0 {
		first = list[pos+1]
	}
	if !first.IsCompound() {
		switch {
		case dir > 0 && first.Kind == atom.KindOpen:
			if end, ok := matchForward(list, pos+1); ok {
				return end
			}
		case dir < 0 && first.Kind == atom.KindClose:
			if start, ok := matchBackward(list, pos); ok {
				return start - 1
			}
		}
	}
	class := classOf(first)
	pos += dir
	if class == classOther {
		return pos
	}
	for {
		var a *atom.Atom
		if dir > 0 {
			if pos+1 >= len(list) {
				return pos
			}
			a = list[pos+1]
		} else {
			if pos < 1 {
				return pos
			}
			a = list[pos]
		}
		if classOf(a) != class {
			return pos
		}
		pos += dir
	}
}

// matchForward finds the close atom balancing the open atom at i.
func matchForward(list []*atom.Atom, i int) (int, bool) {
	depth := 0
	for j := i; j < len(list); j++ {
		switch list[j].Kind {
		case atom.KindOpen:
			depth++
		case atom.KindClose:
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

// matchBackward finds the open atom balancing the close atom at i.
func matchBackward(list []*atom.Atom, i int) (int, bool) {
	depth := 0
	for j := i; j >= 1; j-- {
		switch list[j].Kind {
		case atom.KindClose:
			depth++
		case atom.KindOpen:
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

func classOf(a *atom.Atom) skipClass {
	if a == nil || a.IsCompound() {
		return classOther
	}
	r, _ := utf8.DecodeRuneInString(a.Value)
	if a.Mode == atom.ModeText {
		switch {
		case unicode.IsSpace(r):
			return classSpace
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return classWord
		}
		return classOther
	}
	switch a.Kind {
	case atom.KindBin, atom.KindRel, atom.KindPunct:
		return classOperator
	case atom.KindSpace:
		return classSpace
	case atom.KindOrd:
		switch {
		case unicode.IsDigit(r) || a.Value == ".":
			return classDigit
		case unicode.IsLetter(r) && a.Command == "":
			return classLetter
		}
	}
	return classOther
}
