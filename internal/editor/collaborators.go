package editor

import "github.com/dshills/mathfield/internal/atom"

// Parser turns text in a LaTeX-like grammar into atoms. The returned list
// has no leading sentinel; nested branches do.
type Parser interface {
	Parse(text string, mode atom.Mode, args map[string]string, macros map[string]string, smartFence bool) ([]*atom.Atom, error)
}

// Serializer renders atoms back to text. Implementations may cache the
// result on atoms with SetVerbatim; the model invalidates those caches
// when it mutates a subtree.
type Serializer interface {
	Serialize(list []*atom.Atom) string
}

// Suggestion is one autocomplete candidate for a partial command name.
type Suggestion struct {
	Match string // full command name, e.g. `\frac`
	Value string // text to insert when accepted
}

// SuggestionSource proposes completions, most relevant first.
type SuggestionSource interface {
	Suggest(partial string) []Suggestion
}

// StyleResolver returns the style to stamp on unstyled atoms inserted at
// the model's current position.
type StyleResolver interface {
	StyleAt(m *Model) atom.Style
}

// StyleFunc adapts a function to StyleResolver.
type StyleFunc func(m *Model) atom.Style

// StyleAt implements StyleResolver.
func (f StyleFunc) StyleAt(m *Model) atom.Style {
	return f(m)
}
