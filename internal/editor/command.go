package editor

import (
	"strings"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// commandRun locates the run of command tokens at the caret: the path of
// its list and the indices of its first and last token.
func (m *Model) commandRun() (p path.Path, first, last int, ok bool) {
	p = m.sel.Path
	_, list, ok := m.resolve(p)
	if !ok {
		return nil, 0, 0, false
	}
	i := min(m.sel.End(), len(list)-1)
	if i < 1 || list[i].Kind != atom.KindCommand {
		if i+1 >= len(list) || list[i+1].Kind != atom.KindCommand {
			return nil, 0, 0, false
		}
		i++
	}
	first, last = i, i
	for first > 1 && list[first-1].Kind == atom.KindCommand {
		first--
	}
	for last+1 < len(list) && list[last+1].Kind == atom.KindCommand {
		last++
	}
	return p, first, last, true
}

// InCommandMode reports whether a command is being typed.
func (m *Model) InCommandMode() bool {
	return m.mode == atom.ModeCommand
}

// ExtractCommandString returns the text of the command run: the tokens up
// to the caret when beforeCaret is set, otherwise the whole run including
// suggested tokens.
func (m *Model) ExtractCommandString(beforeCaret bool) string {
	p, first, last, ok := m.commandRun()
	if !ok {
		return ""
	}
	if beforeCaret {
		last = min(last, p.Last().Offset)
	}
	_, list, _ := m.resolve(p)
	var b strings.Builder
	for _, a := range list[first : last+1] {
		b.WriteString(a.Value)
	}
	return b.String()
}

// DecorateCommand flags every token of the run as erroneous, or clears
// the flag.
func (m *Model) DecorateCommand(hasError bool) bool {
	return m.edit("", func() func() []*atom.Atom {
		p, first, last, ok := m.commandRun()
		if !ok {
			return nil
		}
		return func() []*atom.Atom {
			m.decorate(p, first, last, hasError)
			return nil
		}
	})
}

func (m *Model) decorate(p path.Path, first, last int, hasError bool) {
	_, list, _ := m.resolve(p)
	m.touch(p)
	for _, a := range list[first : last+1] {
		a.Error = hasError
		a.InvalidateVerbatim()
	}
}

// CommitCommandBeforeCaret turns suggested tokens before the caret into
// typed ones.
func (m *Model) CommitCommandBeforeCaret() bool {
	m.mustWrite()
	p, first, _, ok := m.commandRun()
	if !ok {
		return false
	}
	_, list, _ := m.resolve(p)
	var hits []*atom.Atom
	for i := first; i <= p.Last().Offset && i < len(list); i++ {
		if list[i].Suggestion {
			hits = append(hits, list[i])
		}
	}
	if len(hits) == 0 {
		return false
	}
	// Not routed through edit: that would drop the suggestions first.
	outer := m.begin()
	defer m.end(outer)
	m.touch(p)
	for _, a := range hits {
		a.Suggestion = false
		a.InvalidateVerbatim()
	}
	return true
}

// SpliceCommand replaces the command run with atoms and leaves command
// mode. With no atoms the run is removed and the caret lands where the
// run began. Otherwise the first placeholder of the replacement is
// selected, or the caret lands after it.
func (m *Model) SpliceCommand(atoms []*atom.Atom) bool {
	return m.edit(AnnounceReplacement, func() func() []*atom.Atom {
		p, first, last, ok := m.commandRun()
		if !ok {
			return nil
		}
		return func() []*atom.Atom {
			m.spliceCommand(p, first, last, atoms)
			return atoms
		}
	})
}

func (m *Model) spliceCommand(p path.Path, first, last int, atoms []*atom.Atom) {
	m.splice(p, first, last-first+1, atoms...)
	m.leaveCommandMode()
	end := first - 1 + len(atoms)
	if len(atoms) == 0 {
		m.sel = path.Caret(p.WithOffset(first - 1))
		return
	}
	if t, ok := m.firstTarget(p, first, end); ok {
		m.sel = t
		return
	}
	m.sel = path.Caret(p.WithOffset(end))
}

func (m *Model) leaveCommandMode() {
	if m.mode == atom.ModeCommand {
		m.mode = m.priorMode
	}
	m.suggestionIndex = 0
}

// hasSuggestions reports whether the current list holds suggested tokens.
func (m *Model) hasSuggestions() bool {
	for _, a := range m.Siblings() {
		if a.Kind == atom.KindCommand && a.Suggestion {
			return true
		}
	}
	return false
}

// removeSuggestions drops suggested tokens from the current list, keeping
// the caret on the same typed atoms.
func (m *Model) removeSuggestions() {
	p := m.sel.Path
	_, list, ok := m.resolve(p)
	if !ok {
		return
	}
	anchor, focus := m.sel.Anchor(), m.sel.Focus()
	for i := len(list) - 1; i >= 1; i-- {
		if list[i].Kind != atom.KindCommand || !list[i].Suggestion {
			continue
		}
		m.splice(p, i, 1)
		if i <= anchor {
			anchor--
		}
		if i <= focus {
			focus--
		}
	}
	m.sel = path.Selection{Path: p.WithOffset(anchor), Extent: focus - anchor}
}

// RemoveSuggestion drops the suggested tail of the command run.
func (m *Model) RemoveSuggestion() bool {
	if !m.hasSuggestions() {
		return false
	}
	return m.edit("", func() func() []*atom.Atom {
		return func() []*atom.Atom { return nil }
	})
}

// InsertSuggestion shows the untyped part of match after the caret as
// suggested tokens. typed is the number of bytes of match already typed.
func (m *Model) InsertSuggestion(match string, typed int) bool {
	if typed < 0 || typed >= len(match) {
		return false
	}
	return m.edit("", func() func() []*atom.Atom {
		return func() []*atom.Atom {
			m.insertSuggestion(match[typed:])
			return nil
		}
	})
}

func (m *Model) insertSuggestion(rest string) {
	var tokens []*atom.Atom
	for _, r := range rest {
		t := atom.NewCommandToken(r)
		t.Suggestion = true
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return
	}
	p := m.sel.Path
	m.splice(p, m.sel.End()+1, 0, tokens...)
}

// EnterCommandMode starts a command at the caret with a backslash token.
func (m *Model) EnterCommandMode() bool {
	if m.mode == atom.ModeCommand {
		return false
	}
	return m.edit(AnnounceInsert, func() func() []*atom.Atom {
		return func() []*atom.Atom {
			if m.placeholderSelected() || !m.sel.IsCollapsed() {
				m.deleteSelection()
			}
			m.removeAdjacentPlaceholder()
			m.priorMode = m.mode
			m.mode = atom.ModeCommand
			m.suggestionIndex = 0
			return m.typeToken('\\')
		}
	})
}

// TypeCommand appends r to the command run and refreshes the suggestion.
func (m *Model) TypeCommand(r rune) bool {
	if m.mode != atom.ModeCommand {
		if !m.EnterCommandMode() {
			return false
		}
		if r == '\\' {
			return true
		}
	}
	return m.edit(AnnounceInsert, func() func() []*atom.Atom {
		return func() []*atom.Atom {
			m.suggestionIndex = 0
			typed := m.typeToken(r)
			m.updateSuggestions()
			return typed
		}
	})
}

func (m *Model) typeToken(r rune) []*atom.Atom {
	t := atom.NewCommandToken(r)
	p := m.sel.Path
	off := m.sel.End()
	m.splice(p, off+1, 0, t)
	m.sel = path.Caret(p.WithOffset(off + 1))
	return []*atom.Atom{t}
}

// updateSuggestions decorates the run according to the suggestion source
// and shows the selected suggestion after the caret.
func (m *Model) updateSuggestions() {
	if m.suggestions == nil {
		return
	}
	p, first, last, ok := m.commandRun()
	if !ok {
		return
	}
	name := m.ExtractCommandString(true)
	found := m.suggestions.Suggest(name)
	m.decorate(p, first, last, len(found) == 0)
	if len(found) == 0 {
		return
	}
	idx := ((m.suggestionIndex % len(found)) + len(found)) % len(found)
	s := found[idx]
	if strings.HasPrefix(s.Match, name) && len(s.Match) > len(name) {
		m.insertSuggestion(s.Match[len(name):])
	}
}

// refreshCommand re-evaluates command state after a deletion inside a
// command in progress: an emptied run leaves command mode.
func (m *Model) refreshCommand() {
	if _, _, _, ok := m.commandRun(); !ok {
		m.leaveCommandMode()
		return
	}
	m.updateSuggestions()
}

// CycleSuggestion shows the next (delta > 0) or previous suggestion.
func (m *Model) CycleSuggestion(delta int) bool {
	if m.mode != atom.ModeCommand || m.suggestions == nil {
		return false
	}
	return m.edit("", func() func() []*atom.Atom {
		return func() []*atom.Atom {
			m.suggestionIndex += delta
			m.updateSuggestions()
			return nil
		}
	})
}

// CompleteCommand resolves the command run. With accept, a suggested
// completion is taken; otherwise only the typed name counts. A known name
// is replaced by its template parsed into atoms. An unknown name leaves
// the run in place, flagged as an error, and returns false.
func (m *Model) CompleteCommand(accept bool) bool {
	if _, _, _, ok := m.commandRun(); !ok {
		m.leaveCommandMode()
		return false
	}
	done := false
	m.Batch(func() {
		if !accept {
			m.removeSuggestions()
		}
		p, first, last, _ := m.commandRun()
		name := m.ExtractCommandString(false)
		for i := first; i <= last; i++ {
			m.Siblings()[i].Suggestion = false
		}
		if name == `\` || name == "" {
			m.spliceCommand(p, first, last, nil)
			done = true
			return
		}
		atoms, ok := m.resolveCommand(name)
		if !ok {
			m.decorate(p, first, last, true)
			return
		}
		prior := m.Clone()
		m.spliceCommand(p, first, last, atoms)
		m.report(AnnounceReplacement, prior, atoms)
		done = true
	})
	return done
}

// resolveCommand parses the template of the named command.
func (m *Model) resolveCommand(name string) ([]*atom.Atom, bool) {
	if m.parser == nil {
		return nil, false
	}
	template := name
	if m.suggestions != nil {
		for _, s := range m.suggestions.Suggest(name) {
			if s.Match == name {
				template = s.Value
				break
			}
		}
	}
	atoms, err := m.parser.Parse(template, m.priorMode, nil, m.settings.Macros, m.settings.SmartFence)
	if err != nil || len(atoms) == 0 {
		return nil, false
	}
	for _, a := range atoms {
		if a.Kind == atom.KindError {
			return nil, false
		}
	}
	return atoms, true
}

// ExitCommandMode discards the command run and leaves command mode.
func (m *Model) ExitCommandMode() bool {
	if _, _, _, ok := m.commandRun(); !ok {
		wasCommand := m.mode == atom.ModeCommand
		m.leaveCommandMode()
		return wasCommand
	}
	return m.SpliceCommand(nil)
}
