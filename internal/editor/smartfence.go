package editor

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// fenceAliases maps alternative spellings to the canonical fence.
var fenceAliases = map[string]string{
	"{":       `\{`,
	"}":       `\}`,
	`\lbrace`: `\{`,
	`\rbrace`: `\}`,
	`\lbrack`: "[",
	`\rbrack`: "]",
	`\lparen`: "(",
	`\rparen`: ")",
	`\vert`:   "|",
	`\Vert`:   `\|`,
	`\lgroup`: "(",
	`\rgroup`: ")",
}

// fencePairs maps each left delimiter to its right delimiter.
var fencePairs = map[string]string{
	"(":       ")",
	"[":       "]",
	`\{`:      `\}`,
	`\langle`: `\rangle`,
	`\lfloor`: `\rfloor`,
	`\lceil`:  `\rceil`,
	`\lvert`:  `\rvert`,
	`\lVert`:  `\rVert`,
	"|":       "|",
	`\|`:      `\|`,
}

var fenceClosers = func() map[string]string {
	out := make(map[string]string, len(fencePairs))
	for l, r := range fencePairs {
		out[r] = l
	}
	return out
}()

func normalizeFence(s string) string {
	if c, ok := fenceAliases[s]; ok {
		return c
	}
	return s
}

// IsFence reports whether s is a delimiter smart fence handles.
func IsFence(s string) bool {
	s = normalizeFence(s)
	_, open := fencePairs[s]
	_, closer := fenceClosers[s]
	return open || closer
}

func isBar(s string) bool {
	return s == "|" || s == `\|`
}

// InsertFence inserts a delimiter with smart-fence matching:
//
//   - a right delimiter closes the innermost group whose right delimiter
//     is still undetermined, absorbing the atoms in between;
//   - a left delimiter opens a group holding the atoms after the caret,
//     or wraps a non-collapsed selection;
//   - a bar inside a group with other delimiters becomes \middle|;
//   - an unmatched right delimiter is inserted as a plain symbol.
//
// It reports false when s is not a delimiter.
func (m *Model) InsertFence(s string, style atom.Style) bool {
	fence := normalizeFence(s)
	right, opens := fencePairs[fence]
	_, closes := fenceClosers[fence]
	if !opens && !closes {
		return false
	}
	return m.edit(AnnounceInsert, func() func() []*atom.Atom {
		return func() []*atom.Atom {
			if closes && (!opens || m.sel.IsCollapsed()) {
				if m.closeFence(fence) {
					return nil
				}
			}
			if isBar(fence) && m.insideOtherGroup(fence) {
				middle := atom.New(atom.KindSizedDelim, fence)
				middle.Command = `\middle`
				m.insert([]*atom.Atom{middle}, InsertOptions{Selection: SelectAfter, Style: style})
				return []*atom.Atom{middle}
			}
			if opens {
				return []*atom.Atom{m.openFence(fence, right, style)}
			}
			literal := atom.New(atom.KindClose, fence)
			m.insert([]*atom.Atom{literal}, InsertOptions{Selection: SelectAfter, Style: style})
			return []*atom.Atom{literal}
		}
	})
}

// openFence starts a delimited group at the selection.
func (m *Model) openFence(left, right string, style atom.Style) *atom.Atom {
	if m.placeholderSelected() {
		m.deleteSelection()
	}
	p := m.sel.Path
	if !m.sel.IsCollapsed() {
		start, end := m.sel.Start(), m.sel.End()
		body := m.splice(p, start+1, end-start)
		group := atom.NewLeftRight(left, right, body)
		m.stamp([]*atom.Atom{group}, style)
		m.splice(p, start+1, 0, group)
		m.sel = path.Caret(p.WithOffset(start + 1))
		return group
	}
	m.removeAdjacentPlaceholder()
	p = m.sel.Path
	off := p.Last().Offset
	_, list, _ := m.resolve(p)
	tail := m.splice(p, off+1, len(list)-off-1)
	group := atom.NewLeftRight(left, atom.UndeterminedDelim, tail)
	m.stamp([]*atom.Atom{group}, style)
	m.splice(p, off+1, 0, group)
	m.sel = path.Caret(p.WithOffset(off + 1).Push(path.BranchRel(atom.Body), 0))
	return group
}

// closeFence resolves an open group with the right delimiter fence. It
// reports false when no group is in scope.
func (m *Model) closeFence(fence string) bool {
	saved := m.sel
	m.sel = collapseTo(m.sel, 1)
	if m.placeholderSelected() {
		m.deleteSelection()
	}
	if m.closeAt(m.sel.Path, fence) {
		return true
	}
	m.sel = saved
	return false
}

func (m *Model) closeAt(p path.Path, fence string) bool {
	parent, list, ok := m.resolve(p)
	if !ok {
		return false
	}
	off := p.Last().Offset
	atEnd := off == len(list)-1
	inGroup := len(p) > 1 && parent.Kind == atom.KindLeftRight && p.Last().Relation.Branch == atom.Body

	// The caret is at the end of an open group, or just before the
	// group's own closing delimiter.
	if inGroup && atEnd && (closable(parent, fence) || parent.RightDelim == fence) {
		m.touch(p)
		parent.RightDelim = fence
		m.sel = path.Caret(p.Pop())
		return true
	}

	// An open group earlier in this list absorbs the atoms up to the caret.
	for i := off; i >= 1; i-- {
		g := list[i]
		if g.Kind != atom.KindLeftRight || !closable(g, fence) {
			continue
		}
		run := m.splice(p, i+1, off-i)
		m.touch(p)
		g.InvalidateVerbatim()
		g.SetBranch(atom.Body, append(g.EnsureBranch(atom.Body), run...))
		g.RightDelim = fence
		m.sel = path.Caret(p.WithOffset(i))
		return true
	}

	// Close the enclosing open group at the caret, moving the rest out.
	if inGroup && closable(parent, fence) {
		tail := m.splice(p, off+1, len(list)-off-1)
		m.touch(p)
		parent.RightDelim = fence
		up := p.Pop()
		m.splice(up, up.Last().Offset+1, 0, tail...)
		m.sel = path.Caret(up)
		return true
	}

	// At the end of a nested list, try one level up.
	if atEnd && len(p) > 1 && m.openGroupAbove(p, fence) {
		up := p.Pop()
		m.sel = path.Caret(up)
		return m.closeAt(up, fence)
	}
	return false
}

// openGroupAbove reports whether an ancestor of the list p names is an
// open group fence can close.
func (m *Model) openGroupAbove(p path.Path, fence string) bool {
	for depth := len(p) - 1; depth >= 1; depth-- {
		a := m.atomAt(p.Truncate(depth))
		if a != nil && a.Kind == atom.KindLeftRight && closable(a, fence) {
			return true
		}
	}
	return false
}

// insideOtherGroup reports whether the caret is in the body of a group
// delimited by something other than fence.
func (m *Model) insideOtherGroup(fence string) bool {
	p := m.sel.Path
	if len(p) < 2 || p.Last().Relation.Branch != atom.Body {
		return false
	}
	parent := m.Parent()
	return parent != nil && parent.Kind == atom.KindLeftRight && parent.LeftDelim != fence
}

// closable reports whether fence may close group g. Any right delimiter
// closes an open group, except that a bar only closes a bar.
func closable(g *atom.Atom, fence string) bool {
	if g.RightDelim != atom.UndeterminedDelim {
		return false
	}
	if _, ambiguous := fencePairs[fence]; ambiguous {
		return g.LeftDelim == fence
	}
	return true
}
