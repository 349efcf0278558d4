package editor

import "github.com/dshills/mathfield/internal/atom"

// ApplyStyle styles the selected atoms and their descendants. If every
// selected atom already carries the style, it is removed instead.
func (m *Model) ApplyStyle(style atom.Style) bool {
	if style.IsZero() {
		return false
	}
	return m.edit("", func() func() []*atom.Atom {
		atoms := m.SelectedAtoms()
		if len(atoms) == 0 {
			return nil
		}
		return func() []*atom.Atom {
			toggle := true
			atom.Walk(atoms, func(a *atom.Atom) bool {
				if a.Kind != atom.KindFirst && !a.Style.Covers(style) {
					toggle = false
				}
				return toggle
			})
			m.touch(m.sel.Path)
			atom.Walk(atoms, func(a *atom.Atom) bool {
				if a.Kind == atom.KindFirst {
					return true
				}
				if toggle {
					a.Style = a.Style.Without(style)
				} else {
					a.Style = a.Style.Merge(style)
				}
				a.InvalidateVerbatim()
				return true
			})
			return nil
		}
	})
}
