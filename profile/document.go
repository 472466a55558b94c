// Package profile builds the canonical, format-independent profile document
// for a candidate.
package profile

import (
	"strings"

	"github.com/c360studio/dossier/status"
)

// FullNameLabel heads the merged given-names + surnames section.
const FullNameLabel = status.ProfileEmoji + " Nombre Completo"

// Section is one labelled answer.
type Section struct {
	Label string
	Body  string
}

// Document is the ordered-section model both renderers consume.
// Sections[0] is always the title section.
type Document struct {
	Title       string
	DisplayName string
	FileStem    string

	// Status is set only when glyphs are rendered at creation time.
	Status status.Class

	Sections []Section
}

// Heading is the level-1 heading text, e.g. "🟡 👤 Perfil de Dante".
func (d Document) Heading() string {
	h := status.ProfileEmoji + " " + d.Title
	if d.Status != "" {
		h = d.Status.Glyph() + " " + h
	}
	return h
}

// PageTitle is the HTML <title> text, e.g. "Perfil - Dante".
func (d Document) PageTitle() string {
	t := "Perfil - " + d.DisplayName
	if d.Status != "" {
		t = d.Status.Glyph() + " " + t
	}
	return t
}

// Body returns the sections after the title section.
func (d Document) Body() []Section {
	if len(d.Sections) <= 1 {
		return nil
	}
	return d.Sections[1:]
}

// CleanText trims s and collapses every whitespace run, newlines included,
// to a single space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
