// Package status classifies candidates and marks their profile documents
// with a status glyph.
package status

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/c360studio/dossier/source"
	"gopkg.in/yaml.v3"
)

// Class is the two-way status of a candidate.
type Class string

const (
	Confident Class = "confident"
	Hesitant  Class = "hesitant"
)

// Glyphs for each class.
const (
	GlyphConfident = "🟢"
	GlyphHesitant  = "🟡"
)

// Glyph returns the marker shown in front of a profile title.
func (c Class) Glyph() string {
	if c == Hesitant {
		return GlyphHesitant
	}
	return GlyphConfident
}

// Label is the human-readable class name used in console output.
func (c Class) Label() string {
	if c == Hesitant {
		return "CON DUDAS"
	}
	return "SIN PROBLEMAS"
}

// Table maps candidate stems to the reason they are considered hesitant.
// Candidates absent from the table are confident.
type Table struct {
	hesitant map[string]string
}

// tableFile is the on-disk YAML shape:
//
//	hesitant:
//	  Edwin_Arles: "Creo que sí, pero tendría que organizarme bien"
//	  Luis Aldair: "Me preocupa un poco, pero estoy dispuesto/a a intentarlo"
type tableFile struct {
	Hesitant map[string]string `yaml:"hesitant"`
}

// NewTable builds a table. Keys may be display names or stems; both are
// normalized with source.SanitizeStem.
func NewTable(hesitant map[string]string) *Table {
	t := &Table{hesitant: make(map[string]string, len(hesitant))}
	for name, reason := range hesitant {
		if key := source.SanitizeStem(name); key != "" {
			t.hesitant[key] = reason
		}
	}
	return t
}

// LoadTable reads a table from a YAML file. A missing file yields an empty
// table, which classifies everyone as confident.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return NewTable(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(nil), nil
		}
		return nil, fmt.Errorf("read status table: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse status table: %w", err)
	}
	return NewTable(f.Hesitant), nil
}

// Classify returns the class for a file stem.
func (t *Table) Classify(stem string) Class {
	if t == nil {
		return Confident
	}
	if _, ok := t.hesitant[stem]; ok {
		return Hesitant
	}
	return Confident
}

// Reason returns the recorded reason for a hesitant stem.
func (t *Table) Reason(stem string) (string, bool) {
	if t == nil {
		return "", false
	}
	r, ok := t.hesitant[stem]
	return r, ok
}

// Entry is one hesitant candidate.
type Entry struct {
	Stem   string
	Reason string
}

// Entries lists hesitant candidates sorted by stem.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.hesitant))
	for stem, reason := range t.hesitant {
		out = append(out, Entry{Stem: stem, Reason: reason})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stem < out[j].Stem })
	return out
}

// Len returns the number of hesitant entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.hesitant)
}
