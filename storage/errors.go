package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a source file is not found.
	ErrNotFound = errors.New("file not found")
)

// FileError records a recoverable failure tied to one file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap exposes the underlying error to errors.Is.
func (e FileError) Unwrap() error {
	return e.Err
}
