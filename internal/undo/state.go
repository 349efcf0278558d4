package undo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/path"
)

// State is a decoded state document. Documents are small JSON objects:
//
//	{"id":"…","op":"insert","value":"x^2","selection":"body:1","time":"…"}
type State struct {
	ID        string
	Op        string
	Value     string
	Selection string
	Time      time.Time
}

// Capture serializes the model into a state document.
func Capture(m *editor.Model, op string, now time.Time) (string, error) {
	value, err := m.Value()
	if err != nil {
		return "", fmt.Errorf("capture state: %w", err)
	}
	fields := []struct {
		key string
		val any
	}{
		{"id", uuid.NewString()},
		{"op", op},
		{"value", value},
		{"selection", m.SelectionString()},
		{"time", now.UTC().Format(time.RFC3339Nano)},
	}
	doc := "{}"
	for _, f := range fields {
		if doc, err = sjson.Set(doc, f.key, f.val); err != nil {
			return "", fmt.Errorf("capture state %s: %w", f.key, err)
		}
	}
	return doc, nil
}

// Decode parses a state document.
func Decode(doc string) (State, error) {
	if !gjson.Valid(doc) {
		return State{}, fmt.Errorf("%w: not JSON", ErrInvalidState)
	}
	r := gjson.GetMany(doc, "id", "op", "value", "selection", "time")
	if !r[2].Exists() || !r[3].Exists() {
		return State{}, fmt.Errorf("%w: missing value or selection", ErrInvalidState)
	}
	s := State{
		ID:        r[0].String(),
		Op:        r[1].String(),
		Value:     r[2].String(),
		Selection: r[3].String(),
	}
	if r[4].Exists() {
		t, err := time.Parse(time.RFC3339Nano, r[4].String())
		if err != nil {
			return State{}, fmt.Errorf("%w: time: %v", ErrInvalidState, err)
		}
		s.Time = t
	}
	return s, nil
}

// Restore puts the model back into the state doc describes.
func Restore(m *editor.Model, doc string) error {
	s, err := Decode(doc)
	if err != nil {
		return err
	}
	if err := m.SetValue(s.Value); err != nil {
		return fmt.Errorf("restore %s: %w", s.ID, err)
	}
	return m.SetSelectionString(s.Selection)
}

// near reports whether two selections are in the same list or the same
// position.
func near(a, b string) bool {
	pa, err := path.Parse(a)
	if err != nil {
		return false
	}
	pb, err := path.Parse(b)
	if err != nil {
		return false
	}
	return path.Distance(pa.Path, pb.Path) <= 1
}
