package profile

import (
	"github.com/c360studio/dossier/catalog"
	"github.com/c360studio/dossier/source"
	"github.com/c360studio/dossier/status"
)

// Builder turns CandidateRecords into Documents. It is pure: the same record
// always yields the same document.
type Builder struct {
	catalog       *catalog.Catalog
	identityField string
	surnameField  string
	table         *status.Table
}

// Option customizes a Builder.
type Option func(*Builder)

// WithStatus makes the builder classify each candidate so renderers emit the
// status glyph directly.
func WithStatus(table *status.Table) Option {
	return func(b *Builder) {
		b.table = table
	}
}

// NewBuilder creates a builder. identityField and surnameField name the
// columns merged into the full-name section.
func NewBuilder(cat *catalog.Catalog, identityField, surnameField string, opts ...Option) *Builder {
	if cat == nil {
		cat = catalog.Default()
	}
	b := &Builder{
		catalog:       cat,
		identityField: source.CanonicalKey(identityField),
		surnameField:  source.CanonicalKey(surnameField),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates the document for one record.
func (b *Builder) Build(rec source.CandidateRecord) Document {
	title := "Perfil de " + rec.DisplayName
	doc := Document{
		Title:       title,
		DisplayName: rec.DisplayName,
		FileStem:    rec.FileStem,
		Sections:    []Section{{Label: title}},
	}
	if b.table != nil {
		doc.Status = b.table.Classify(rec.FileStem)
	}

	if full, ok := b.fullName(rec); ok {
		doc.Sections = append(doc.Sections, Section{Label: FullNameLabel, Body: full})
	}

	for _, f := range rec.Fields {
		if b.catalog.Excluded(f.Key) || f.Key == b.identityField || f.Key == b.surnameField {
			continue
		}
		body := CleanText(f.Value)
		if body == "" {
			continue
		}
		doc.Sections = append(doc.Sections, Section{Label: b.catalog.Label(f.Key), Body: body})
	}

	return doc
}

// BuildAll builds documents for records, preserving order.
func (b *Builder) BuildAll(recs []source.CandidateRecord) []Document {
	docs := make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, b.Build(rec))
	}
	return docs
}

func (b *Builder) fullName(rec source.CandidateRecord) (string, bool) {
	given, ok := rec.Value(b.identityField)
	if !ok {
		return "", false
	}
	surname, ok := rec.Value(b.surnameField)
	if !ok {
		return "", false
	}
	given, surname = CleanText(given), CleanText(surname)
	if given == "" || surname == "" {
		return "", false
	}
	return given + " " + surname, true
}
