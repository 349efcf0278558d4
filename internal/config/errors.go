package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownSetting indicates a key the configuration does not define.
	ErrUnknownSetting = errors.New("unknown setting")
)

// DecodeError locates a problem the TOML decoder found in a configuration
// file. Line and Column are 1-based and zero when the decoder gave no
// position.
type DecodeError struct {
	Source string
	Line   int
	Column int
	// Key is the dotted key involved, when known.
	Key string
	Err error
}

// Error formats the error as "source:line:column: key: message".
func (e *DecodeError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.Source, e.Line, e.Column)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: %s: %v", loc, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError describes a setting that failed validation.
type ValidationError struct {
	// Path is the dotted setting name, e.g. "editor.insert_mode".
	Path string
	// Message describes the failure.
	Message string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
