package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/undo"
)

// Config is the decoded configuration file.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Undo   UndoConfig   `toml:"undo"`
	Log    LogConfig    `toml:"log"`
}

// EditorConfig holds the [editor] section.
type EditorConfig struct {
	SmartFence                  bool              `toml:"smart_fence"`
	RemoveExtraneousParentheses bool              `toml:"remove_extraneous_parentheses"`
	DefaultMode                 string            `toml:"default_mode"`
	InsertMode                  string            `toml:"insert_mode"`
	SelectionMode               string            `toml:"selection_mode"`
	Macros                      map[string]string `toml:"macros"`
}

// UndoConfig holds the [undo] section.
type UndoConfig struct {
	MaxEntries int `toml:"max_entries"`
	// CoalesceMS is the typing window in milliseconds; 0 disables merging.
	CoalesceMS int `toml:"coalesce_ms"`
}

// LogConfig holds the [log] section.
type LogConfig struct {
	Level string `toml:"level"`
}

var insertModes = map[string]editor.InsertMode{
	"replace_selection": editor.ReplaceSelection,
	"replace_all":       editor.ReplaceAll,
	"insert_before":     editor.InsertBefore,
	"insert_after":      editor.InsertAfter,
}

var selectionModes = map[string]editor.SelectionMode{
	"placeholder": editor.SelectPlaceholder,
	"after":       editor.SelectAfter,
	"before":      editor.SelectBefore,
	"item":        editor.SelectItem,
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			SmartFence:                  true,
			RemoveExtraneousParentheses: true,
			DefaultMode:                 "math",
			InsertMode:                  "replace_selection",
			SelectionMode:               "placeholder",
			Macros:                      map[string]string{},
		},
		Undo: UndoConfig{
			MaxEntries: undo.DefaultMaxEntries,
			CoalesceMS: int(undo.DefaultCoalesceWindow / time.Millisecond),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads and validates the file at path. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data over the defaults and validates the result.
// source names the data in errors.
func Parse(source string, data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, decodeError(source, err)
	}
	if cfg.Editor.Macros == nil {
		cfg.Editor.Macros = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeError converts the decoder's errors to DecodeErrors. Every unknown
// key is reported, not just the first.
func decodeError(source string, err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) && len(strict.Errors) > 0 {
		errs := make([]error, len(strict.Errors))
		for i, missing := range strict.Errors {
			line, col := missing.Position()
			errs[i] = &DecodeError{
				Source: source,
				Line:   line,
				Column: col,
				Key:    strings.Join(missing.Key(), "."),
				Err:    ErrUnknownSetting,
			}
		}
		return errors.Join(errs...)
	}
	de := &DecodeError{Source: source, Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		de.Line, de.Column = derr.Position()
		de.Key = strings.Join(derr.Key(), ".")
	}
	return de
}

// Validate checks every setting and reports all failures together.
func (c Config) Validate() error {
	var errs []error
	bad := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if mode, ok := atom.ParseMode(c.Editor.DefaultMode); !ok || mode == atom.ModeCommand {
		bad("editor.default_mode", "must be math or text", c.Editor.DefaultMode)
	}
	if _, ok := insertModes[c.Editor.InsertMode]; !ok {
		bad("editor.insert_mode", "must be one of "+names(insertModes), c.Editor.InsertMode)
	}
	if _, ok := selectionModes[c.Editor.SelectionMode]; !ok {
		bad("editor.selection_mode", "must be one of "+names(selectionModes), c.Editor.SelectionMode)
	}
	for name, body := range c.Editor.Macros {
		if name == "" || body == "" {
			bad("editor.macros", "names and expansions must be non-empty", name)
		}
	}
	if c.Undo.MaxEntries < 1 {
		bad("undo.max_entries", "must be at least 1", c.Undo.MaxEntries)
	}
	if c.Undo.CoalesceMS < 0 {
		bad("undo.coalesce_ms", "must not be negative", c.Undo.CoalesceMS)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		bad("log.level", "unknown level", c.Log.Level)
	}
	return errors.Join(errs...)
}

func names[V any](m map[string]V) string {
	return strings.Join(slices.Sorted(maps.Keys(m)), ", ")
}

// Settings converts the [editor] section. The configuration must be
// valid.
func (c Config) Settings() editor.Settings {
	mode, _ := atom.ParseMode(c.Editor.DefaultMode)
	return editor.Settings{
		Macros:                      maps.Clone(c.Editor.Macros),
		RemoveExtraneousParentheses: c.Editor.RemoveExtraneousParentheses,
		SmartFence:                  c.Editor.SmartFence,
		DefaultMode:                 mode,
		InsertMode:                  insertModes[c.Editor.InsertMode],
		SelectionMode:               selectionModes[c.Editor.SelectionMode],
	}
}

// UndoOptions converts the [undo] section.
func (c Config) UndoOptions() []undo.Option {
	return []undo.Option{
		undo.WithMaxEntries(c.Undo.MaxEntries),
		undo.WithCoalesceWindow(time.Duration(c.Undo.CoalesceMS) * time.Millisecond),
	}
}

// Level returns the configured log level, defaulting to warn.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}
