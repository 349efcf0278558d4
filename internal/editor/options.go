package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/atom"
)

// InsertMode selects where inserted content goes.
type InsertMode int

const (
	// ReplaceSelection deletes a non-collapsed selection, then inserts.
	ReplaceSelection InsertMode = iota

	// ReplaceAll discards the whole tree before inserting.
	ReplaceAll

	// InsertBefore inserts at the start of the selection.
	InsertBefore

	// InsertAfter inserts at the end of the selection.
	InsertAfter
)

// SelectionMode selects where the selection lands after an insertion.
type SelectionMode int

const (
	// SelectPlaceholder selects the first placeholder of the inserted
	// content, or parks the caret after it when there is none.
	SelectPlaceholder SelectionMode = iota

	// SelectAfter parks the caret after the inserted run.
	SelectAfter

	// SelectBefore leaves the caret before the inserted run.
	SelectBefore

	// SelectItem selects the inserted run.
	SelectItem
)

// Format tells InsertText how to interpret its input.
type Format int

const (
	// FormatAuto parses math-mode input and splits text-mode input into
	// characters.
	FormatAuto Format = iota

	// FormatLatex always goes through the Parser.
	FormatLatex

	// FormatText inserts every grapheme cluster as a literal symbol.
	FormatText
)

// InsertOptions controls a single insertion.
type InsertOptions struct {
	Mode      InsertMode
	Selection SelectionMode
	Format    Format

	// InputMode overrides the model's current input mode.
	InputMode *atom.Mode

	// Style is stamped on unstyled inserted atoms. When zero, the model's
	// StyleResolver is consulted.
	Style atom.Style

	// Args are substituted for #name references by the Parser. "@" is
	// filled with the current selection when absent.
	Args map[string]string

	// NoSmartFence disables fence matching for this insertion.
	NoSmartFence bool
}

// Settings is the editing configuration of a Model.
type Settings struct {
	// Macros maps command names (without backslash) to their expansion.
	Macros map[string]string

	// RemoveExtraneousParentheses unwraps a parenthesis group whose only
	// content is a fraction.
	RemoveExtraneousParentheses bool

	// SmartFence pairs delimiters into delimited groups as they are typed.
	SmartFence bool

	// DefaultMode is the input mode of a new model.
	DefaultMode atom.Mode

	// InsertMode and SelectionMode are the defaults used by Type.
	InsertMode    InsertMode
	SelectionMode SelectionMode
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		Macros:                      map[string]string{},
		RemoveExtraneousParentheses: true,
		SmartFence:                  true,
		DefaultMode:                 atom.ModeMath,
		InsertMode:                  ReplaceSelection,
		SelectionMode:               SelectPlaceholder,
	}
}

// Option configures a Model during creation.
type Option func(*Model)

// WithSettings replaces the editing configuration.
func WithSettings(s Settings) Option {
	return func(m *Model) {
		if s.Macros == nil {
			s.Macros = map[string]string{}
		}
		m.settings = s
		m.mode = s.DefaultMode
	}
}

// WithListener sets the notification sink.
func WithListener(l Listener) Option {
	return func(m *Model) {
		if l != nil {
			m.listener = l
		}
	}
}

// WithParser sets the text parser.
func WithParser(p Parser) Option {
	return func(m *Model) {
		m.parser = p
	}
}

// WithSerializer sets the serializer.
func WithSerializer(s Serializer) Option {
	return func(m *Model) {
		m.serializer = s
	}
}

// WithSuggestions sets the command-mode suggestion source.
func WithSuggestions(s SuggestionSource) Option {
	return func(m *Model) {
		m.suggestions = s
	}
}

// WithStyleResolver sets the resolver used to style inserted atoms.
func WithStyleResolver(r StyleResolver) Option {
	return func(m *Model) {
		m.styles = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRoot starts the model on an existing tree.
func WithRoot(root *atom.Atom) Option {
	return func(m *Model) {
		if root != nil && root.Kind == atom.KindRoot {
			m.root = root
		}
	}
}
