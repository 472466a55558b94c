// Package markdown renders profile documents as Markdown files.
package markdown

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/c360studio/dossier/profile"
	"github.com/c360studio/dossier/storage"
)

// Ext is the file extension of rendered profiles.
const Ext = ".md"

// Renderer converts profile documents to Markdown.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a Markdown renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render serializes doc. Output depends only on doc.
func (r *Renderer) Render(doc profile.Document) []byte {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(doc.Heading())
	sb.WriteString("\n\n---\n\n")

	for _, s := range doc.Body() {
		sb.WriteString("## ")
		sb.WriteString(s.Label)
		sb.WriteString("\n\n")
		sb.WriteString(s.Body)
		sb.WriteString("\n\n---\n\n")
	}

	return []byte(sb.String())
}

// Result reports what WriteAll produced.
type Result struct {
	// Written holds the paths of files written, in document order.
	Written  []string
	Failures []storage.FileError
}

// Path returns where the profile for stem lives under dir.
func Path(dir, stem string) string {
	return filepath.Join(dir, stem+Ext)
}

// WriteAll writes one {stem}.md per document into dir. A failing file is
// recorded and the rest are still written.
func (r *Renderer) WriteAll(ctx context.Context, dir string, docs []profile.Document) (Result, error) {
	var result Result
	if err := storage.EnsureDir(dir); err != nil {
		return result, err
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := Path(dir, doc.FileStem)
		if err := storage.WriteFileAtomic(path, r.Render(doc)); err != nil {
			result.Failures = append(result.Failures, storage.FileError{Path: path, Err: err})
			r.logger.Error("Failed to write profile", "file", path, "error", err)
			continue
		}
		result.Written = append(result.Written, path)
		r.logger.Debug("Wrote profile", "file", path)
	}

	return result, nil
}
