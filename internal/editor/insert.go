package editor

import (
	"fmt"
	"maps"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// Insert inserts atoms at the selection. The atoms must not carry a
// leading sentinel. It reports whether anything changed.
func (m *Model) Insert(atoms []*atom.Atom, opts InsertOptions) bool {
	if len(atoms) > 0 && atoms[0].Kind == atom.KindFirst {
		atoms = atoms[1:]
	}
	if len(atoms) == 0 && opts.Mode != ReplaceAll {
		return false
	}
	event := AnnounceInsert
	if opts.Mode == ReplaceAll || (opts.Mode == ReplaceSelection && !m.sel.IsCollapsed()) {
		event = AnnounceReplacement
	}
	return m.edit(event, func() func() []*atom.Atom {
		return func() []*atom.Atom {
			m.insert(atoms, opts)
			return atoms
		}
	})
}

// insert performs an insertion inside a command already in progress.
func (m *Model) insert(atoms []*atom.Atom, opts InsertOptions) {
	switch opts.Mode {
	case ReplaceAll:
		m.root.SetBranch(atom.Body, nil)
		m.root.InvalidateVerbatim()
		m.sel = path.Caret(path.Root(0))
	case InsertBefore:
		m.sel = collapseTo(m.sel, -1)
	case InsertAfter:
		m.sel = collapseTo(m.sel, 1)
	default:
		if !m.sel.IsCollapsed() {
			m.report(AnnounceDelete, m.Clone(), m.deleteSelection())
		}
	}
	if len(atoms) == 0 {
		return
	}
	m.stamp(atoms, opts.Style)
	if m.settings.RemoveExtraneousParentheses {
		atoms = simplifyParens(atoms)
	}

	m.removeAdjacentPlaceholder()
	p := m.sel.Path
	at, count := p.Last().Offset+1, 0
	if m.settings.RemoveExtraneousParentheses && len(atoms) == 1 && atoms[0].Kind == atom.KindFraction {
		if up, ok := m.redundantGroup(p); ok {
			p, at, count = up, up.Last().Offset, 1
		}
	}
	m.splice(p, at, count, atoms...)

	last := at - 1 + len(atoms)
	switch opts.Selection {
	case SelectItem:
		m.sel = path.Selection{Path: p.WithOffset(at - 1), Extent: len(atoms)}
	case SelectBefore:
		m.sel = path.Caret(p.WithOffset(at - 1))
	case SelectAfter:
		m.sel = path.Caret(p.WithOffset(last))
	default:
		if t, ok := m.firstTarget(p, at, last); ok {
			m.sel = t
		} else {
			m.sel = path.Caret(p.WithOffset(last))
		}
	}
}

// removeAdjacentPlaceholder drops a placeholder just before or after the
// caret, moving the caret as needed.
func (m *Model) removeAdjacentPlaceholder() {
	p := m.sel.Path
	_, list, ok := m.resolve(p)
	if !ok {
		return
	}
	off := p.Last().Offset
	switch {
	case off >= 1 && list[off].Kind == atom.KindPlaceholder:
		m.splice(p, off, 1)
		m.sel = path.Caret(p.WithOffset(off - 1))
	case off+1 < len(list) && list[off+1].Kind == atom.KindPlaceholder:
		m.splice(p, off+1, 1)
	}
}

// redundantGroup reports whether the caret sits in the otherwise empty
// body of a parenthesis group, returning the path to the group.
func (m *Model) redundantGroup(p path.Path) (path.Path, bool) {
	if len(p) < 2 || p.Last().Relation.Branch != atom.Body {
		return nil, false
	}
	parent, list, ok := m.resolve(p)
	if !ok || !atom.IsEmptyList(list) || !isParenGroup(parent) {
		return nil, false
	}
	return p.Pop(), true
}

// stamp applies the insertion style to every unstyled atom.
func (m *Model) stamp(atoms []*atom.Atom, style atom.Style) {
	if style.IsZero() && m.styles != nil {
		style = m.styles.StyleAt(m)
	}
	if style.IsZero() {
		return
	}
	atom.Walk(atoms, func(a *atom.Atom) bool {
		if a.Kind != atom.KindFirst && a.Style.IsZero() {
			a.Style = style
		}
		return true
	})
}

// InsertText parses text and inserts the result. In command mode every
// rune goes to the command buffer instead.
func (m *Model) InsertText(text string, opts InsertOptions) error {
	mode := m.mode
	if opts.InputMode != nil {
		mode = *opts.InputMode
	}
	if mode == atom.ModeCommand {
		for _, r := range text {
			m.TypeCommand(r)
		}
		return nil
	}
	smartFence := m.settings.SmartFence && !opts.NoSmartFence
	if smartFence && opts.Format != FormatText && opts.Mode != ReplaceAll && mode == atom.ModeMath && IsFence(text) {
		if m.InsertFence(text, opts.Style) {
			return nil
		}
	}

	var atoms []*atom.Atom
	if opts.Format == FormatText || (opts.Format == FormatAuto && mode == atom.ModeText) {
		atoms = symbols(text, mode)
	} else {
		if m.parser == nil {
			return ErrNoParser
		}
		args := maps.Clone(opts.Args)
		if args == nil {
			args = map[string]string{}
		}
		if _, ok := args["@"]; !ok && m.serializer != nil {
			args["@"] = m.serializer.Serialize(m.SelectedAtoms())
		}
		parsed, err := m.parser.Parse(text, mode, args, m.settings.Macros, smartFence)
		if err != nil {
			m.logger.Debug("rejected input", zap.String("text", text), zap.Error(err))
			return fmt.Errorf("insert %q: %w", text, err)
		}
		atoms = parsed
	}
	if len(atoms) == 0 && opts.Mode != ReplaceAll {
		return ErrNothingInserted
	}
	m.Insert(atoms, opts)
	return nil
}

// Type inserts text with the configured default modes.
func (m *Model) Type(text string) error {
	return m.InsertText(text, InsertOptions{
		Mode:      m.settings.InsertMode,
		Selection: m.settings.SelectionMode,
	})
}

// symbols splits text into one atom per grapheme cluster.
func symbols(text string, mode atom.Mode) []*atom.Atom {
	var out []*atom.Atom
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		s := g.Str()
		if mode == atom.ModeText {
			out = append(out, atom.NewText(s))
			continue
		}
		out = append(out, atom.New(symbolKind(s), s))
	}
	return out
}

func symbolKind(s string) atom.Kind {
	r, _ := utf8.DecodeRuneInString(s)
	switch {
	case unicode.IsSpace(r):
		return atom.KindSpace
	case r == '+' || r == '-' || r == '*' || r == '/' || r == '±' || r == '×' || r == '÷' || r == '·':
		return atom.KindBin
	case r == '=' || r == '<' || r == '>' || r == '≤' || r == '≥' || r == '≠' || r == '≈':
		return atom.KindRel
	case r == ',' || r == ';' || r == ':':
		return atom.KindPunct
	case r == '(' || r == '[':
		return atom.KindOpen
	case r == ')' || r == ']':
		return atom.KindClose
	}
	return atom.KindOrd
}

// AddScript attaches a superscript or subscript to the atom before the
// caret (or starts a bare one) and moves the caret into it.
func (m *Model) AddScript(b atom.Branch) bool {
	if !b.IsScript() {
		return false
	}
	return m.edit(AnnounceInsert, func() func() []*atom.Atom {
		return func() []*atom.Atom {
			m.sel = collapseTo(m.sel, 1)
			m.removeAdjacentPlaceholder()
			p := m.sel.Path
			off := p.Last().Offset
			_, list, _ := m.resolve(p)
			carrier := list[off]
			var inserted []*atom.Atom
			if off < 1 || !atom.Legal(carrier.Kind, b) {
				carrier = atom.New(atom.KindSubSup, "")
				m.splice(p, off+1, 0, carrier)
				off++
				inserted = []*atom.Atom{carrier}
			} else {
				m.touch(p)
				carrier.InvalidateVerbatim()
			}
			script := carrier.EnsureBranch(b)
			at := p.WithOffset(off).Push(path.BranchRel(b), len(script)-1)
			m.sel = path.Caret(at)
			if atom.IsEmptyList(script) {
				m.sel = m.occupy(at)
			}
			return inserted
		}
	})
}
