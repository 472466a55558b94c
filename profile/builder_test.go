package profile

import (
	"testing"

	"github.com/c360studio/dossier/catalog"
	"github.com/c360studio/dossier/source"
	"github.com/c360studio/dossier/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fields ...source.Field) source.CandidateRecord {
	return source.CandidateRecord{
		DisplayName: "Dante",
		FileStem:    "Dante",
		Fields:      fields,
		AreaPrimary: "Robótica",
	}
}

func newBuilder(opts ...Option) *Builder {
	return NewBuilder(catalog.Default(), "Nombres:", "Apellidos:", opts...)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hola  ", "hola"},
		{"línea uno\nlínea dos", "línea uno línea dos"},
		{"a \t\r\n  b", "a b"},
		{"\n\n", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "%q", tt.in)
	}
}

func TestBuild_SectionOrder(t *testing.T) {
	rec := record(
		source.Field{Key: "Id", Value: "7"},
		source.Field{Key: "Hora de inicio", Value: "9/1/25 10:00"},
		source.Field{Key: "Nombres:", Value: "Dante"},
		source.Field{Key: "Apellidos:", Value: " Quispe\nHuamán "},
		source.Field{Key: "Ciclo Relativo", Value: "5"},
		source.Field{Key: "Pregunta libre", Value: "  Me gusta\n\nconstruir robots  "},
		source.Field{Key: "Segunda opción de área", Value: "   "},
		source.Field{Key: "Teléfono (WhatsApp):", Value: "999 888 777"},
	)

	doc := newBuilder().Build(rec)

	assert.Equal(t, "Perfil de Dante", doc.Title)
	assert.Equal(t, "Dante", doc.FileStem)
	require.Len(t, doc.Sections, 5)
	assert.Equal(t, Section{Label: "Perfil de Dante"}, doc.Sections[0])
	assert.Equal(t, Section{Label: FullNameLabel, Body: "Dante Quispe Huamán"}, doc.Sections[1])
	assert.Equal(t, Section{Label: "📚 Ciclo Relativo", Body: "5"}, doc.Sections[2])
	assert.Equal(t, Section{Label: "Pregunta libre", Body: "Me gusta construir robots"}, doc.Sections[3])
	assert.Equal(t, Section{Label: "📱 Teléfono (WhatsApp)", Body: "999 888 777"}, doc.Sections[4])
	assert.Len(t, doc.Body(), 4)
}

func TestBuild_NoFullNameWithoutSurname(t *testing.T) {
	doc := newBuilder().Build(record(
		source.Field{Key: "Nombres:", Value: "Dante"},
		source.Field{Key: "Apellidos:", Value: "  "},
		source.Field{Key: "Ciclo Relativo", Value: "5"},
	))

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "📚 Ciclo Relativo", doc.Sections[1].Label)
}

func TestBuild_NoFullNameWithoutSurnameColumn(t *testing.T) {
	doc := newBuilder().Build(record(source.Field{Key: "Nombres:", Value: "Dante"}))
	require.Len(t, doc.Sections, 1)
	assert.Nil(t, doc.Body())
}

func TestBuild_Deterministic(t *testing.T) {
	rec := record(
		source.Field{Key: "Nombres:", Value: "Dante"},
		source.Field{Key: "Apellidos:", Value: "Quispe"},
		source.Field{Key: "B", Value: "2"},
		source.Field{Key: "A", Value: "1"},
		source.Field{Key: "C", Value: "3"},
	)
	b := newBuilder()
	first := b.Build(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, b.Build(rec))
	}
	assert.Equal(t, "B", first.Sections[2].Label)
	assert.Equal(t, "A", first.Sections[3].Label)
}

func TestBuild_WithStatus(t *testing.T) {
	table := status.NewTable(map[string]string{"Dante": "Creo que sí"})

	plain := newBuilder().Build(record())
	assert.Equal(t, status.Class(""), plain.Status)
	assert.Equal(t, "👤 Perfil de Dante", plain.Heading())
	assert.Equal(t, "Perfil - Dante", plain.PageTitle())

	doc := newBuilder(WithStatus(table)).Build(record())
	assert.Equal(t, status.Hesitant, doc.Status)
	assert.Equal(t, "🟡 👤 Perfil de Dante", doc.Heading())
	assert.Equal(t, "🟡 Perfil - Dante", doc.PageTitle())

	other := record()
	other.DisplayName, other.FileStem = "Mara", "Mara"
	assert.Equal(t, "🟢 👤 Perfil de Mara", newBuilder(WithStatus(table)).Build(other).Heading())
}

func TestBuildAll_PreservesOrder(t *testing.T) {
	a := record()
	b := record()
	b.DisplayName, b.FileStem = "Mara", "Mara"

	docs := newBuilder().BuildAll([]source.CandidateRecord{b, a})
	require.Len(t, docs, 2)
	assert.Equal(t, "Mara", docs[0].FileStem)
	assert.Equal(t, "Dante", docs[1].FileStem)
}
