package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/editor"
)

const sample = `
[editor]
smart_fence = false
insert_mode = "insert_after"
selection_mode = "item"
default_mode = "text"

[editor.macros]
half = '\frac{1}{2}'

[undo]
max_entries = 50
coalesce_ms = 0

[log]
level = "debug"
`

func TestParse(t *testing.T) {
	cfg, err := Parse("sample.toml", []byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Editor: EditorConfig{
			SmartFence:                  false,
			RemoveExtraneousParentheses: true,
			DefaultMode:                 "text",
			InsertMode:                  "insert_after",
			SelectionMode:               "item",
			Macros:                      map[string]string{"half": `\frac{1}{2}`},
		},
		Undo: UndoConfig{MaxEntries: 50, CoalesceMS: 0},
		Log:  LogConfig{Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse (-want +got):\n%s", diff)
	}
	if cfg.Level() != zapcore.DebugLevel {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse("empty.toml", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file changed the defaults (-want +got):\n%s", diff)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults are invalid: %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantLine int // 0 when the decoder's position is not checked
		is       error
	}{
		{"syntax", "[editor\nsmart_fence = true", 0, nil},
		{"wrong type", "[undo]\nmax_entries = \"many\"", 0, nil},
		{"unknown key", "[editor]\nsmart_fence = true\ncolour = \"red\"", 3, ErrUnknownSetting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.toml", []byte(tt.data))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Parse error = %v, want *DecodeError", err)
			}
			if de.Source != "bad.toml" {
				t.Errorf("DecodeError source = %q", de.Source)
			}
			if !strings.HasPrefix(err.Error(), "bad.toml") {
				t.Errorf("message %q does not start with the source", err)
			}
			if tt.wantLine > 0 && de.Line != tt.wantLine {
				t.Errorf("DecodeError line = %d, want %d", de.Line, tt.wantLine)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}

func TestParse_EveryUnknownKey(t *testing.T) {
	data := "[editor]\ncolour = \"red\"\n[undo]\ndepth = 3\n"
	_, err := Parse("bad.toml", []byte(data))
	if !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("Parse error = %v", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("error %T does not list each key", err)
	}
	var lines []int
	for _, e := range joined.Unwrap() {
		var de *DecodeError
		if !errors.As(e, &de) {
			t.Fatalf("%v is not a *DecodeError", e)
		}
		lines = append(lines, de.Line)
	}
	if diff := cmp.Diff([]int{2, 4}, lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "bad.toml:2:") || !strings.Contains(err.Error(), "unknown setting") {
		t.Errorf("message = %q", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Editor.InsertMode = "sideways"
	cfg.Editor.DefaultMode = "command"
	cfg.Undo.MaxEntries = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Validate = %v", err)
	}
	var paths []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *ValidationError
		if errors.As(e, &ve) {
			paths = append(paths, ve.Path)
		}
	}
	want := []string{"editor.default_mode", "editor.insert_mode", "undo.max_entries", "log.level"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("failed settings (-want +got):\n%s", diff)
	}
}

func TestSettings(t *testing.T) {
	cfg, err := Parse("sample.toml", []byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	want := editor.Settings{
		Macros:                      map[string]string{"half": `\frac{1}{2}`},
		RemoveExtraneousParentheses: true,
		SmartFence:                  false,
		DefaultMode:                 atom.ModeText,
		InsertMode:                  editor.InsertAfter,
		SelectionMode:               editor.SelectItem,
	}
	if diff := cmp.Diff(want, cfg.Settings()); diff != "" {
		t.Errorf("Settings (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(editor.DefaultSettings(), Default().Settings()); diff != "" {
		t.Errorf("default settings disagree (-editor +config):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file (-want +got):\n%s", diff)
	}

	path := filepath.Join(dir, "mathedit.toml")
	if err := os.WriteFile(path, []byte("[undo]\nmax_entries = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Undo.MaxEntries != 7 {
		t.Errorf("max_entries = %d, want 7", cfg.Undo.MaxEntries)
	}
}
