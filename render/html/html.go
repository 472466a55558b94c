// Package html renders profile documents as standalone HTML pages with
// prev/next navigation and writes the collection index.
package html

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/c360studio/dossier/profile"
	"github.com/c360studio/dossier/render/markdown"
	"github.com/c360studio/dossier/storage"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Ext is the file extension of rendered pages.
const Ext = ".html"

// IndexFile is the collection index written next to the profile pages.
const IndexFile = "index.html"

// Source selects how page content is produced.
type Source string

const (
	// SourceDocument transcodes document sections directly.
	SourceDocument Source = "document"
	// SourceMarkdown converts the Markdown rendering with goldmark.
	SourceMarkdown Source = "markdown"
)

// Valid reports whether s names a known content source.
func (s Source) Valid() bool {
	return s == SourceDocument || s == SourceMarkdown
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Nav holds the navigation targets of one page. Empty Prev/Next are omitted.
type Nav struct {
	Home string
	Prev string
	Next string
}

// Navigation returns the links for docs[i] in the order given.
func Navigation(docs []profile.Document, i int) Nav {
	nav := Nav{Home: IndexFile}
	if i > 0 {
		nav.Prev = docs[i-1].FileStem + Ext
	}
	if i < len(docs)-1 {
		nav.Next = docs[i+1].FileStem + Ext
	}
	return nav
}

type pageData struct {
	Title   string
	Nav     Nav
	Content template.HTML
}

type indexEntry struct {
	Href string
	Name string
}

type indexData struct {
	Title   string
	Entries []indexEntry
}

// Renderer produces profile pages and the collection index.
type Renderer struct {
	source   Source
	markdown *markdown.Renderer
	md       goldmark.Markdown
	logger   *slog.Logger
}

// NewRenderer creates an HTML renderer for the given content source.
func NewRenderer(source Source, logger *slog.Logger) (*Renderer, error) {
	if source == "" {
		source = SourceDocument
	}
	if !source.Valid() {
		return nil, fmt.Errorf("unknown html source %q", source)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		source:   source,
		markdown: markdown.NewRenderer(logger),
		md: goldmark.New(goldmark.WithExtensions(
			extension.Table,
			extension.DefinitionList,
			extension.Footnote,
		)),
		logger: logger,
	}, nil
}

// Source returns the renderer's content source.
func (r *Renderer) Source() Source {
	return r.source
}

// Content returns the body fragment for doc: the level-1 heading followed
// by each section as a level-2 heading and paragraph, separated by rules.
func (r *Renderer) Content(doc profile.Document) (string, error) {
	if r.source == SourceMarkdown {
		var buf bytes.Buffer
		if err := r.md.Convert(r.markdown.Render(literal(doc)), &buf); err != nil {
			return "", fmt.Errorf("convert markdown for %s: %w", doc.FileStem, err)
		}
		return buf.String(), nil
	}
	return transcode(doc), nil
}

// literal returns a copy of doc whose text goldmark reads verbatim: every
// ASCII punctuation character is backslash-escaped, so answers like
// "<b>Go</b>" or "1. primero" stay plain text.
func literal(doc profile.Document) profile.Document {
	out := doc
	out.Title = escapeMarkdown(doc.Title)
	out.Sections = make([]profile.Section, len(doc.Sections))
	for i, s := range doc.Sections {
		out.Sections[i] = profile.Section{Label: escapeMarkdown(s.Label), Body: escapeMarkdown(s.Body)}
	}
	return out
}

func escapeMarkdown(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func transcode(doc profile.Document) string {
	var sb strings.Builder
	sb.WriteString("<h1>")
	sb.WriteString(template.HTMLEscapeString(doc.Heading()))
	sb.WriteString("</h1>\n<hr>\n")
	for _, s := range doc.Body() {
		sb.WriteString("<h2>")
		sb.WriteString(template.HTMLEscapeString(s.Label))
		sb.WriteString("</h2>\n<p>")
		sb.WriteString(template.HTMLEscapeString(s.Body))
		sb.WriteString("</p>\n<hr>\n")
	}
	return sb.String()
}

// Render produces a complete page for doc.
func (r *Renderer) Render(doc profile.Document, nav Nav) ([]byte, error) {
	content, err := r.Content(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "profile", pageData{
		Title:   doc.PageTitle(),
		Nav:     nav,
		Content: template.HTML(content),
	})
	if err != nil {
		return nil, fmt.Errorf("render page for %s: %w", doc.FileStem, err)
	}
	return buf.Bytes(), nil
}

// RenderIndex produces the collection index listing docs in order.
func (r *Renderer) RenderIndex(docs []profile.Document) ([]byte, error) {
	data := indexData{Title: "Perfiles ACECOM PAM 2025"}
	for _, doc := range docs {
		data.Entries = append(data.Entries, indexEntry{
			Href: doc.FileStem + Ext,
			Name: doc.DisplayName,
		})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index", data); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// Result reports what WriteAll produced.
type Result struct {
	// Written holds profile page paths in document order, excluding the index.
	Written  []string
	Index    string
	Failures []storage.FileError
}

// Path returns where the page for stem lives under dir.
func Path(dir, stem string) string {
	return filepath.Join(dir, stem+Ext)
}

// WriteAll writes one {stem}.html per document into dir, then index.html.
// Navigation follows the order of docs. Per-page failures are recorded and
// the remaining pages are still written.
func (r *Renderer) WriteAll(ctx context.Context, dir string, docs []profile.Document) (Result, error) {
	var result Result
	if err := storage.EnsureDir(dir); err != nil {
		return result, err
	}

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := Path(dir, doc.FileStem)
		if err := r.writePage(path, doc, Navigation(docs, i)); err != nil {
			result.Failures = append(result.Failures, storage.FileError{Path: path, Err: err})
			r.logger.Error("Failed to write page", "file", path, "error", err)
			continue
		}
		result.Written = append(result.Written, path)
		r.logger.Debug("Wrote page", "file", path)
	}

	index, err := r.RenderIndex(docs)
	if err != nil {
		return result, err
	}
	indexPath := filepath.Join(dir, IndexFile)
	if err := storage.WriteFileAtomic(indexPath, index); err != nil {
		result.Failures = append(result.Failures, storage.FileError{Path: indexPath, Err: err})
		r.logger.Error("Failed to write index", "file", indexPath, "error", err)
		return result, nil
	}
	result.Index = indexPath

	return result, nil
}

func (r *Renderer) writePage(path string, doc profile.Document, nav Nav) error {
	page, err := r.Render(doc, nav)
	if err != nil {
		return err
	}
	return storage.WriteFileAtomic(path, page)
}
