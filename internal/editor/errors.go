package editor

import "errors"

// Errors returned by editor operations.
var (
	// ErrNoParser indicates text insertion was requested without a Parser.
	ErrNoParser = errors.New("editor: no parser configured")

	// ErrNoSerializer indicates Value was requested without a Serializer.
	ErrNoSerializer = errors.New("editor: no serializer configured")

	// ErrNothingInserted indicates the input produced no atoms.
	ErrNothingInserted = errors.New("editor: nothing to insert")
)
