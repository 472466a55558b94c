package status

import "errors"

// Per-file annotation errors. Neither aborts a batch.
var (
	// ErrPatternMismatch means the document title is not in the expected format.
	ErrPatternMismatch = errors.New("title pattern not found")

	// ErrAlreadyAnnotated means the title already carries a status glyph.
	ErrAlreadyAnnotated = errors.New("title already annotated")
)
