package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/dossier/profile"
	"github.com/c360studio/dossier/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() profile.Document {
	return profile.Document{
		Title:       "Perfil de Dante",
		DisplayName: "Dante",
		FileStem:    "Dante",
		Sections: []profile.Section{
			{Label: "Perfil de Dante"},
			{Label: profile.FullNameLabel, Body: "Dante Quispe"},
			{Label: "📚 Ciclo Relativo", Body: "5"},
		},
	}
}

func TestRender(t *testing.T) {
	got := string(NewRenderer(nil).Render(sampleDoc()))

	want := "# 👤 Perfil de Dante\n\n" +
		"---\n\n" +
		"## 👤 Nombre Completo\n\n" +
		"Dante Quispe\n\n" +
		"---\n\n" +
		"## 📚 Ciclo Relativo\n\n" +
		"5\n\n" +
		"---\n\n"
	assert.Equal(t, want, got)
}

func TestRender_TitleOnly(t *testing.T) {
	doc := sampleDoc()
	doc.Sections = doc.Sections[:1]
	assert.Equal(t, "# 👤 Perfil de Dante\n\n---\n\n", string(NewRenderer(nil).Render(doc)))
}

func TestRender_InlineStatus(t *testing.T) {
	doc := sampleDoc()
	doc.Status = status.Hesitant
	got := string(NewRenderer(nil).Render(doc))
	assert.Contains(t, got, "# 🟡 👤 Perfil de Dante\n")
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer(nil)
	assert.Equal(t, r.Render(sampleDoc()), r.Render(sampleDoc()))
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "perfiles_md")
	other := sampleDoc()
	other.FileStem, other.DisplayName, other.Title = "Edwin_Arles", "Edwin Arles", "Perfil de Edwin Arles"

	result, err := NewRenderer(nil).WriteAll(context.Background(), dir, []profile.Document{sampleDoc(), other})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	assert.Equal(t, []string{Path(dir, "Dante"), Path(dir, "Edwin_Arles")}, result.Written)

	data, err := os.ReadFile(filepath.Join(dir, "Edwin_Arles.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# 👤 Perfil de Edwin Arles")
}

func TestWriteAll_RecordsFailures(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the target name makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Dante.md", "x"), 0755))

	other := sampleDoc()
	other.FileStem = "Mara"

	result, err := NewRenderer(nil).WriteAll(context.Background(), dir, []profile.Document{sampleDoc(), other})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, Path(dir, "Dante"), result.Failures[0].Path)
	assert.Equal(t, []string{Path(dir, "Mara")}, result.Written)
}
