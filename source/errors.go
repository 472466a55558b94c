package source

import "errors"

// Fatal loader errors. Both abort a run before any output is produced.
var (
	// ErrInputNotFound is returned when the survey export does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMissingColumn is returned when the identity column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
)
