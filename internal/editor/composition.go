package editor

import (
	"golang.org/x/text/width"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// composition returns the path to the composition atom in the current
// list, if any.
func (m *Model) composition() (path.Path, bool) {
	for i, a := range m.Siblings() {
		if a.Kind == atom.KindComposition {
			return m.sel.Path.WithOffset(i), true
		}
	}
	return nil, false
}

// Composition returns the text shown by the input method preview.
func (m *Model) Composition() string {
	if p, ok := m.composition(); ok {
		return m.atomAt(p).Value
	}
	return ""
}

// SetComposition shows text as an input method preview at the caret. An
// empty text cancels the preview.
func (m *Model) SetComposition(text string) bool {
	if text == "" {
		return m.CancelComposition()
	}
	return m.edit("", func() func() []*atom.Atom {
		return func() []*atom.Atom {
			if p, ok := m.composition(); ok {
				m.touch(p)
				c := m.atomAt(p)
				c.Value = text
				c.InvalidateVerbatim()
				return nil
			}
			if !m.sel.IsCollapsed() {
				m.deleteSelection()
			}
			c := atom.New(atom.KindComposition, text)
			c.Mode = m.mode
			p := m.sel.Path
			off := m.sel.Anchor()
			m.splice(p, off+1, 0, c)
			m.sel = path.Caret(p.WithOffset(off + 1))
			return nil
		}
	})
}

// CancelComposition removes the input method preview.
func (m *Model) CancelComposition() bool {
	return m.edit("", func() func() []*atom.Atom {
		p, ok := m.composition()
		if !ok {
			return nil
		}
		return func() []*atom.Atom {
			m.removeComposition(p)
			return nil
		}
	})
}

func (m *Model) removeComposition(p path.Path) {
	i := p.Last().Offset
	m.splice(p, i, 1)
	anchor := m.sel.Anchor()
	if anchor >= i {
		m.sel = path.Caret(p.WithOffset(anchor - 1))
	}
}

// CommitComposition replaces the preview with its text, typed normally.
// In math mode full-width forms are folded to their narrow equivalents.
func (m *Model) CommitComposition() error {
	p, ok := m.composition()
	if !ok {
		return nil
	}
	text := m.atomAt(p).Value
	if m.mode == atom.ModeMath {
		text = width.Narrow.String(text)
	}
	var err error
	m.Batch(func() {
		m.removeComposition(p)
		err = m.Type(text)
	})
	return err
}
