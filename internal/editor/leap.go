package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// Leap selects the next (dir > 0) or previous placeholder or empty list,
// wrapping around the expression.
func (m *Model) Leap(dir int) bool {
	return m.navigate(AnnounceLeap, func() (path.Selection, bool) {
		targets := m.targets(path.Root(0), 1, len(m.root.Branch(atom.Body))-1)
		if len(targets) == 0 {
			return m.sel, false
		}
		next, ok := pickTarget(targets, m.sel, dir)
		if !ok || next.Equal(m.sel) {
			return m.sel, false
		}
		return next, true
	})
}

// pickTarget returns the first target after (or last before) sel,
// wrapping.
func pickTarget(targets []path.Selection, sel path.Selection, dir int) (path.Selection, bool) {
	if dir > 0 {
		end := sel.Path.WithOffset(sel.End())
		for _, t := range targets {
			if path.Compare(t.Path.WithOffset(t.Start()), end) > 0 {
				return t, true
			}
		}
		return targets[0], true
	}
	start := sel.Path.WithOffset(sel.Start())
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if path.Compare(t.Path.WithOffset(t.End()), start) < 0 {
			return t, true
		}
	}
	return targets[len(targets)-1], true
}

// targets lists, in document order, the leap stops found among atoms
// lo..hi of the list p names: each placeholder selected, and each empty
// child list as a caret.
func (m *Model) targets(p path.Path, lo, hi int) []path.Selection {
	_, list, ok := m.resolve(p)
	if !ok {
		return nil
	}
	var out []path.Selection
	collectTargets(list, p, lo, min(hi, len(list)-1), &out)
	return out
}

func collectTargets(list []*atom.Atom, p path.Path, lo, hi int, out *[]path.Selection) {
	for i := max(lo, 1); i <= hi; i++ {
		a := list[i]
		if a.Kind == atom.KindPlaceholder {
			*out = append(*out, path.Selection{Path: p.WithOffset(i - 1), Extent: 1})
			continue
		}
		if !a.IsCompound() {
			continue
		}
		at := p.WithOffset(i)
		for _, rel := range relations(a) {
			child, _ := childList(a, rel)
			if atom.IsEmptyList(child) {
				*out = append(*out, path.Caret(at.Push(rel, 0)))
				continue
			}
			collectTargets(child, at.Push(rel, 0), 1, len(child)-1, out)
		}
	}
}

// firstTarget returns the first leap stop among atoms lo..hi of the list
// p names. An empty list is plugged with a placeholder first.
func (m *Model) firstTarget(p path.Path, lo, hi int) (path.Selection, bool) {
	targets := m.targets(p, lo, hi)
	if len(targets) == 0 {
		return path.Selection{}, false
	}
	t := targets[0]
	if t.IsCollapsed() && m.emptyNonRoot(t.Path) {
		return m.occupy(t.Path), true
	}
	return t, true
}
