package latex

import (
	"errors"
	"fmt"
)

// Errors returned by the parser, wrapped in a ParseError.
var (
	// ErrUnbalanced indicates a missing or extra closing brace.
	ErrUnbalanced = errors.New("unbalanced braces")

	// ErrMissingArgument indicates a command lacks a required argument.
	ErrMissingArgument = errors.New("missing argument")

	// ErrEnvironment indicates a bad or unterminated environment.
	ErrEnvironment = errors.New("bad environment")

	// ErrMacroDepth indicates macros expanding into themselves.
	ErrMacroDepth = errors.New("macro expansion too deep")
)

// ParseError reports where parsing failed.
type ParseError struct {
	// Offset is the byte offset in the input.
	Offset int
	// Message describes the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("latex: %s at offset %d", e.Message, e.Offset)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
