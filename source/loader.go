package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Options configures how a survey export is read and filtered.
// Field names are canonical keys (see CanonicalKey).
type Options struct {
	// Delimiter separates cells (default ';').
	Delimiter rune

	// Encoding of the input file (utf-8, utf-16, windows-1252, latin1).
	Encoding string

	// IdentityField holds the candidate's given names; required.
	IdentityField string

	// SurnameField holds the candidate's surnames; optional.
	SurnameField string

	// AreaField holds the primary area of interest; optional.
	AreaField string

	// Placeholders are identity values dropped on exact match.
	Placeholders []string

	// ShortPlaceholders are identity values dropped case-insensitively.
	ShortPlaceholders []string
}

// DefaultOptions returns the options matching the PAM survey export.
func DefaultOptions() Options {
	return Options{
		Delimiter:         ';',
		Encoding:          EncodingUTF8,
		IdentityField:     "Nombres:",
		SurnameField:      "Apellidos:",
		AreaField:         "¿A qué área de ACECOM te gustaría postular? Principal interes.",
		Placeholders:      []string{"asdas"},
		ShortPlaceholders: []string{"i", "j", "asdas"},
	}
}

// Loader turns a survey export into validated CandidateRecords.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger uses slog.Default().
func NewLoader(opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	opts.IdentityField = CanonicalKey(opts.IdentityField)
	opts.SurnameField = CanonicalKey(opts.SurnameField)
	opts.AreaField = CanonicalKey(opts.AreaField)
	return &Loader{opts: opts, logger: logger}
}

// Options returns the loader's effective (canonicalized) options.
func (l *Loader) Options() Options {
	return l.opts
}

// Load opens path and reads it with Read.
func (l *Loader) Load(ctx context.Context, path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	batch, err := l.Read(ctx, f)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Loaded survey export",
		"path", path,
		"accepted", len(batch.Records),
		"skipped", batch.Skipped)
	return batch, nil
}

// Read parses an export from r. Rows are either accepted whole or skipped;
// skipped rows are counted, never reported as errors.
func (l *Loader) Read(ctx context.Context, r io.Reader) (*Batch, error) {
	decoded, err := decodingReader(r, l.opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = l.opts.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rawHeader, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s (empty input)", ErrMissingColumn, l.opts.IdentityField)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	headers := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		headers[i] = CanonicalKey(h)
	}

	identityIdx := indexOf(headers, l.opts.IdentityField)
	if identityIdx < 0 {
		return nil, fmt.Errorf("%w: %q not in header (available: %s)",
			ErrMissingColumn, l.opts.IdentityField, strings.Join(quoteAll(headers), ", "))
	}
	areaIdx := indexOf(headers, l.opts.AreaField)
	if l.opts.AreaField != "" && areaIdx < 0 {
		l.logger.Warn("Area column not found, every candidate is unspecified", "column", l.opts.AreaField)
	}

	batch := &Batch{Headers: headers}
	stems := NewStemAllocator()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		name, ok := l.acceptIdentity(row, identityIdx)
		if !ok {
			batch.Skipped++
			continue
		}

		stem, renamed := stems.Allocate(name)
		if renamed {
			batch.Renamed++
			l.logger.Warn("File stem adjusted",
				"name", name,
				"stem", stem,
				"line", line)
		}

		batch.Records = append(batch.Records, CandidateRecord{
			DisplayName: name,
			FileStem:    stem,
			Fields:      buildFields(headers, row),
			AreaPrimary: areaOf(row, areaIdx),
			Row:         line,
		})
	}

	return batch, nil
}

// acceptIdentity applies the identity filters in order and returns the
// trimmed display name when the row is accepted.
func (l *Loader) acceptIdentity(row []string, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	raw := row[idx]
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}
	for _, p := range l.opts.Placeholders {
		if raw == p {
			return "", false
		}
	}
	if utf8.RuneCountInString(name) < 2 {
		return "", false
	}
	lower := strings.ToLower(name)
	for _, p := range l.opts.ShortPlaceholders {
		if lower == strings.ToLower(p) {
			return "", false
		}
	}
	return name, true
}

func buildFields(headers, row []string) []Field {
	fields := make([]Field, len(headers))
	for i, h := range headers {
		var value string
		if i < len(row) {
			value = row[i]
		}
		fields[i] = Field{Key: h, Value: value}
	}
	return fields
}

func areaOf(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return UnspecifiedArea
	}
	area := strings.TrimSpace(row[idx])
	if area == "" {
		return UnspecifiedArea
	}
	return area
}

func indexOf(headers []string, key string) int {
	if key == "" {
		return -1
	}
	for i, h := range headers {
		if h == key {
			return i
		}
	}
	return -1
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
