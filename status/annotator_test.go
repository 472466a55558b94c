package status

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "# 👤 Perfil de Dante\n\n---\n\n## 📚 Ciclo Relativo\n\n5\n\n---\n\n"

const sampleHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<title>Perfil - Dante</title>
</head>
<body>
<h1>👤 Perfil de Dante</h1>
<h2>📚 Ciclo Relativo</h2>
<p>5</p>
</body>
</html>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func hesitantTable() *Table {
	return NewTable(map[string]string{"Dante": "Creo que sí, pero tendría que organizarme bien"})
}

func TestAnnotateFile_Markdown(t *testing.T) {
	dir := t.TempDir()
	hesitant := filepath.Join(dir, "Dante.md")
	confident := filepath.Join(dir, "Mara.md")
	writeFile(t, hesitant, sampleMarkdown)
	writeFile(t, confident, strings.ReplaceAll(sampleMarkdown, "Dante", "Mara"))

	a := NewAnnotator(hesitantTable(), nil)

	class, err := a.AnnotateFile(hesitant)
	require.NoError(t, err)
	assert.Equal(t, Hesitant, class)
	assert.True(t, strings.HasPrefix(readFile(t, hesitant), "# 🟡 👤 Perfil de Dante\n"))

	class, err = a.AnnotateFile(confident)
	require.NoError(t, err)
	assert.Equal(t, Confident, class)
	assert.True(t, strings.HasPrefix(readFile(t, confident), "# 🟢 👤 Perfil de Mara\n"))
}

func TestAnnotateFile_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dante.html")
	writeFile(t, path, sampleHTML)

	_, err := NewAnnotator(hesitantTable(), nil).AnnotateFile(path)
	require.NoError(t, err)

	got := readFile(t, path)
	assert.Contains(t, got, "<h1>🟡 👤 Perfil de Dante</h1>")
	assert.Contains(t, got, "<title>🟡 Perfil - Dante</title>")
	assert.Equal(t, 1, strings.Count(got, "🟡 👤"))
}

func TestAnnotateFile_SecondPassIsNoOp(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "Dante.md")
	html := filepath.Join(dir, "Dante.html")
	writeFile(t, md, sampleMarkdown)
	writeFile(t, html, sampleHTML)

	a := NewAnnotator(hesitantTable(), nil)
	_, err := a.AnnotateFile(md)
	require.NoError(t, err)
	_, err = a.AnnotateFile(html)
	require.NoError(t, err)
	mdOnce, htmlOnce := readFile(t, md), readFile(t, html)

	_, err = a.AnnotateFile(md)
	assert.ErrorIs(t, err, ErrAlreadyAnnotated)
	_, err = a.AnnotateFile(html)
	assert.ErrorIs(t, err, ErrAlreadyAnnotated)

	assert.Equal(t, mdOnce, readFile(t, md), "second pass must not add a second glyph")
	assert.Equal(t, htmlOnce, readFile(t, html))
	assert.Equal(t, 1, strings.Count(readFile(t, md), "🟡"))
}

func TestAnnotateFile_PatternMismatch(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "Notas.md")
	html := filepath.Join(dir, "Notas.html")
	writeFile(t, md, "# Notas sueltas\n")
	writeFile(t, html, "<h1>Notas</h1>")

	a := NewAnnotator(nil, nil)
	_, err := a.AnnotateFile(md)
	assert.ErrorIs(t, err, ErrPatternMismatch)
	_, err = a.AnnotateFile(html)
	assert.ErrorIs(t, err, ErrPatternMismatch)

	assert.Equal(t, "# Notas sueltas\n", readFile(t, md), "mismatched files are left untouched")
}

func TestAnnotate_WalksRootsAndContinuesOnFailure(t *testing.T) {
	mdRoot := filepath.Join(t.TempDir(), "perfiles_md")
	htmlRoot := filepath.Join(t.TempDir(), "perfiles_html")
	writeFile(t, filepath.Join(mdRoot, "Dante.md"), sampleMarkdown)
	writeFile(t, filepath.Join(mdRoot, "Broken.md"), "no title here\n")
	writeFile(t, filepath.Join(mdRoot, "Mara.md"), strings.ReplaceAll(sampleMarkdown, "Dante", "Mara"))
	writeFile(t, filepath.Join(htmlRoot, "Dante.html"), sampleHTML)
	writeFile(t, filepath.Join(htmlRoot, "index.html"), "<h1>👤 Perfil de nadie</h1>")
	writeFile(t, filepath.Join(htmlRoot, "IA", "Dante.html"), sampleHTML)
	writeFile(t, filepath.Join(htmlRoot, "notes.txt"), "ignored")

	a := NewAnnotator(hesitantTable(), nil)
	summary, err := a.Annotate(context.Background(), mdRoot, htmlRoot, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Markdown)
	assert.Equal(t, 2, summary.HTML)
	assert.Equal(t, 3, summary.Hesitant)
	assert.Equal(t, 1, summary.Confident)
	assert.Equal(t, 4, summary.Processed())
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, filepath.Join(mdRoot, "Broken.md"), summary.Failures[0].Path)
	assert.ErrorIs(t, summary.Failures[0], ErrPatternMismatch)

	assert.Equal(t, "<h1>👤 Perfil de nadie</h1>", readFile(t, filepath.Join(htmlRoot, "index.html")))

	again, err := a.Annotate(context.Background(), mdRoot, htmlRoot)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Processed())
	assert.Equal(t, 4, again.AlreadyAnnotated)
	assert.Len(t, again.Failures, 1)
}

func TestAnnotate_ContextCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Dante.md"), sampleMarkdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAnnotator(nil, nil).Annotate(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, sampleMarkdown, readFile(t, filepath.Join(root, "Dante.md")))
}
