// Package source reads the survey export into validated candidate records:
// text decoding, canonical header keys, identity filtering and stem assignment.
package source

import "strings"

// UnspecifiedArea is the area recorded for candidates who left the area
// question blank.
const UnspecifiedArea = "Sin especificar"

// Field is one answered column of a survey row. Key is the canonical header.
type Field struct {
	Key   string
	Value string
}

// CandidateRecord is one accepted survey row. It is built once by the
// Loader and treated as immutable afterwards.
type CandidateRecord struct {
	// DisplayName is the trimmed identity value (never empty, at least two runes).
	DisplayName string

	// FileStem is the run-unique sanitized form of DisplayName.
	FileStem string

	// Fields holds every column in source order, keyed canonically.
	Fields []Field

	// AreaPrimary is the declared area, or UnspecifiedArea when blank.
	AreaPrimary string

	// Row is the 1-based line in the input where the row starts.
	Row int
}

// Value returns the raw value for a canonical key.
func (r CandidateRecord) Value(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// HasArea reports whether the candidate declared a non-blank area.
func (r CandidateRecord) HasArea() bool {
	area := strings.TrimSpace(r.AreaPrimary)
	return area != "" && area != UnspecifiedArea
}

// Batch is the authoritative, ordered result of loading one export.
type Batch struct {
	// Records are the accepted candidates in source order.
	Records []CandidateRecord

	// Headers are the canonical header keys in column order.
	Headers []string

	// Skipped counts rows rejected by identity filtering.
	Skipped int

	// Renamed counts records whose stem differs from SanitizeStem(name).
	Renamed int
}

// WithArea returns the records that declared an area, in source order.
func (b *Batch) WithArea() []CandidateRecord {
	out := make([]CandidateRecord, 0, len(b.Records))
	for _, r := range b.Records {
		if r.HasArea() {
			out = append(out, r)
		}
	}
	return out
}
