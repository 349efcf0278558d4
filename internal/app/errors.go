package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the script asked to stop.
	ErrQuit = errors.New("quit requested")

	// ErrUnknownAction indicates a script line names no action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrBadArgument indicates an action argument that cannot be used.
	ErrBadArgument = errors.New("bad argument")

	// ErrRefused indicates the model declined the operation, for example
	// moving past the end of the expression.
	ErrRefused = errors.New("operation refused")

	// ErrScript indicates a Lua script failed to load or raised an error.
	ErrScript = errors.New("lua script failed")
)

// ActionError reports a failed script line.
type ActionError struct {
	Line   int
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
