package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/dossier/storage"
)

// ProfileEmoji precedes every profile title; the status glyph is inserted
// immediately before it.
const ProfileEmoji = "👤"

// Index pages are never annotated.
var indexPages = map[string]bool{
	"index.html":         true,
	"index_general.html": true,
}

var (
	markdownTitleRe     = regexp.MustCompile(`(?m)^# ` + ProfileEmoji + ` Perfil de (.+)$`)
	markdownAnnotatedRe = regexp.MustCompile(`(?m)^# (?:` + GlyphHesitant + `|` + GlyphConfident + `) ` + ProfileEmoji + ` Perfil de `)

	htmlHeadingRe   = regexp.MustCompile(`<h1>` + ProfileEmoji + ` Perfil de (.+?)</h1>`)
	htmlTitleRe     = regexp.MustCompile(`<title>Perfil - (.+?)</title>`)
	htmlAnnotatedRe = regexp.MustCompile(`<h1>(?:` + GlyphHesitant + `|` + GlyphConfident + `) ` + ProfileEmoji + ` Perfil de `)
)

// Summary tallies one annotation pass.
type Summary struct {
	Markdown         int
	HTML             int
	Hesitant         int
	Confident        int
	AlreadyAnnotated int
	Failures         []storage.FileError
}

// Processed returns the number of files rewritten.
func (s Summary) Processed() int {
	return s.Markdown + s.HTML
}

// Annotator rewrites rendered profile titles in place to carry a status glyph.
//
// The rewrite is not idempotent by construction: a second pass sees the
// glyph, reports ErrAlreadyAnnotated and leaves the file alone.
type Annotator struct {
	table  *Table
	logger *slog.Logger
}

// NewAnnotator creates an annotator for a classification table.
func NewAnnotator(table *Table, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	if table == nil {
		table = NewTable(nil)
	}
	return &Annotator{table: table, logger: logger}
}

// Annotate processes every .md and .html profile below each root. Missing
// roots are skipped. Per-file failures are collected in the summary; only
// context cancellation stops the pass early.
func (a *Annotator) Annotate(ctx context.Context, roots ...string) (Summary, error) {
	var summary Summary

	for _, root := range roots {
		files, err := listDocuments(root)
		if err != nil {
			summary.Failures = append(summary.Failures, storage.FileError{Path: root, Err: err})
			a.logger.Error("Failed to list documents", "root", root, "error", err)
			continue
		}

		for _, rel := range files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			file := filepath.Join(root, filepath.FromSlash(rel))
			class, err := a.AnnotateFile(file)
			switch {
			case err == nil:
				if filepath.Ext(file) == ".md" {
					summary.Markdown++
				} else {
					summary.HTML++
				}
				if class == Hesitant {
					summary.Hesitant++
				} else {
					summary.Confident++
				}
				a.logger.Debug("Annotated document", "file", file, "status", class)
			case errors.Is(err, ErrAlreadyAnnotated):
				summary.AlreadyAnnotated++
				a.logger.Warn("Document already annotated, left unchanged", "file", file)
			default:
				summary.Failures = append(summary.Failures, storage.FileError{Path: file, Err: err})
				a.logger.Error("Failed to annotate document", "file", file, "error", err)
			}
		}
	}

	return summary, nil
}

// AnnotateFile rewrites a single document and returns the class it applied.
func (a *Annotator) AnnotateFile(file string) (Class, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	class := a.table.Classify(stem)

	var updated string
	switch filepath.Ext(file) {
	case ".md":
		updated, err = annotateMarkdown(string(data), class)
	case ".html":
		updated, err = annotateHTML(string(data), class)
	default:
		return "", fmt.Errorf("unsupported document type %q", filepath.Ext(file))
	}
	if err != nil {
		return "", err
	}

	if err := storage.WriteFileAtomic(file, []byte(updated)); err != nil {
		return "", err
	}
	return class, nil
}

func annotateMarkdown(content string, class Class) (string, error) {
	if markdownAnnotatedRe.MatchString(content) {
		return "", ErrAlreadyAnnotated
	}
	if !markdownTitleRe.MatchString(content) {
		return "", ErrPatternMismatch
	}
	repl := "# " + class.Glyph() + " " + ProfileEmoji + " Perfil de ${1}"
	return markdownTitleRe.ReplaceAllString(content, repl), nil
}

func annotateHTML(content string, class Class) (string, error) {
	if htmlAnnotatedRe.MatchString(content) {
		return "", ErrAlreadyAnnotated
	}
	if !htmlHeadingRe.MatchString(content) {
		return "", ErrPatternMismatch
	}
	glyph := class.Glyph()
	out := htmlHeadingRe.ReplaceAllString(content, "<h1>"+glyph+" "+ProfileEmoji+" Perfil de ${1}</h1>")
	out = htmlTitleRe.ReplaceAllString(out, "<title>"+glyph+" Perfil - ${1}</title>")
	return out, nil
}

// listDocuments returns profile documents below root as slash paths,
// sorted. A missing root yields no documents.
func listDocuments(root string) ([]string, error) {
	if !storage.Exists(root) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.{md,html}", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob documents: %w", err)
	}
	files := matches[:0]
	for _, m := range matches {
		if indexPages[path.Base(m)] {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}
