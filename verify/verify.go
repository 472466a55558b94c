// Package verify cross-checks the generated trees: every Markdown profile
// has an HTML page with the same heading, title and sections, and the area
// trees hold faithful copies of the flat trees.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/dossier/storage"
)

// IssueKind classifies a consistency problem.
type IssueKind string

const (
	MissingHTML     IssueKind = "missing_html"
	MissingMarkdown IssueKind = "missing_markdown"
	TitleMismatch   IssueKind = "title_mismatch"
	SectionMismatch IssueKind = "section_mismatch"
	StaleCopy       IssueKind = "stale_copy"
	MissingIndex    IssueKind = "missing_index"
	Unreadable      IssueKind = "unreadable"
)

// Issue is one problem found by Check.
type Issue struct {
	Kind   IssueKind
	Path   string
	Detail string
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Path)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Kind, i.Path, i.Detail)
}

// Report is the outcome of a check.
type Report struct {
	Profiles  int
	AreaFiles int
	Issues    []Issue
}

// OK reports whether no issues were found.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Count returns the number of issues of kind k.
func (r Report) Count(k IssueKind) int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == k {
			n++
		}
	}
	return n
}

// Options locates the trees to check. Empty area directories are skipped.
type Options struct {
	MarkdownDir     string
	HTMLDir         string
	MarkdownAreaDir string
	HTMLAreaDir     string
}

// Checker compares the generated trees.
type Checker struct {
	opts      Options
	converter *converter
	logger    *slog.Logger
}

// NewChecker creates a checker.
func NewChecker(opts Options, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{opts: opts, converter: newConverter(), logger: logger}
}

// Check walks the trees and reports every inconsistency. Only context
// cancellation or an unreadable tree root produce an error.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	var report Report

	if err := c.checkProfiles(ctx, &report); err != nil {
		return report, err
	}
	if c.opts.MarkdownAreaDir != "" && c.opts.HTMLAreaDir != "" {
		if err := c.checkAreas(ctx, &report); err != nil {
			return report, err
		}
	}

	c.logger.Debug("Verified trees",
		"profiles", report.Profiles,
		"area_files", report.AreaFiles,
		"issues", len(report.Issues))
	return report, nil
}

func (c *Checker) checkProfiles(ctx context.Context, report *Report) error {
	mdStems, err := stems(c.opts.MarkdownDir, ".md")
	if err != nil {
		return err
	}
	htmlStems, err := stems(c.opts.HTMLDir, ".html")
	if err != nil {
		return err
	}

	for _, stem := range sortedKeys(mdStems) {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Profiles++
		mdPath := filepath.Join(c.opts.MarkdownDir, stem+".md")
		htmlPath := filepath.Join(c.opts.HTMLDir, stem+".html")
		if !htmlStems[stem] {
			report.Issues = append(report.Issues, Issue{Kind: MissingHTML, Path: htmlPath})
			continue
		}
		report.Issues = append(report.Issues, c.compare(mdPath, htmlPath)...)
	}

	for _, stem := range sortedKeys(htmlStems) {
		if !mdStems[stem] {
			report.Issues = append(report.Issues, Issue{
				Kind: MissingMarkdown,
				Path: filepath.Join(c.opts.MarkdownDir, stem+".md"),
			})
		}
	}

	if storage.Exists(c.opts.HTMLDir) && !storage.Exists(filepath.Join(c.opts.HTMLDir, "index.html")) {
		report.Issues = append(report.Issues, Issue{Kind: MissingIndex, Path: filepath.Join(c.opts.HTMLDir, "index.html")})
	}
	return nil
}

// compare checks one Markdown profile against its HTML page.
func (c *Checker) compare(mdPath, htmlPath string) []Issue {
	mdData, err := os.ReadFile(mdPath)
	if err != nil {
		return []Issue{{Kind: Unreadable, Path: mdPath, Detail: err.Error()}}
	}
	page, err := os.ReadFile(htmlPath)
	if err != nil {
		return []Issue{{Kind: Unreadable, Path: htmlPath, Detail: err.Error()}}
	}
	converted, err := c.converter.Convert(page)
	if err != nil {
		return []Issue{{Kind: Unreadable, Path: htmlPath, Detail: err.Error()}}
	}

	want := ParseMarkdown(string(mdData))
	got := ParseMarkdown(converted.Markdown)

	var issues []Issue
	if want.Heading != got.Heading {
		issues = append(issues, Issue{
			Kind:   TitleMismatch,
			Path:   htmlPath,
			Detail: fmt.Sprintf("heading %q, markdown has %q", got.Heading, want.Heading),
		})
	}
	if expected := ExpectedPageTitle(want.Heading); converted.Title != expected {
		issues = append(issues, Issue{
			Kind:   TitleMismatch,
			Path:   htmlPath,
			Detail: fmt.Sprintf("title %q, expected %q", converted.Title, expected),
		})
	}
	if detail := diffSections(want, got); detail != "" {
		issues = append(issues, Issue{Kind: SectionMismatch, Path: htmlPath, Detail: detail})
	}
	return issues
}

func diffSections(want, got Outline) string {
	if len(want.Sections) != len(got.Sections) {
		return fmt.Sprintf("%d sections, markdown has %d", len(got.Sections), len(want.Sections))
	}
	for i := range want.Sections {
		w, g := want.Sections[i], got.Sections[i]
		if w.Label != g.Label {
			return fmt.Sprintf("section %d label %q, markdown has %q", i+1, g.Label, w.Label)
		}
		if w.Body != g.Body {
			return fmt.Sprintf("section %d (%s) body differs", i+1, w.Label)
		}
	}
	return ""
}

// checkAreas verifies that every file in an area tree is a byte-identical
// copy of its flat-tree source, and that each HTML area has an index.
func (c *Checker) checkAreas(ctx context.Context, report *Report) error {
	trees := []struct {
		root, flat, pattern string
	}{
		{c.opts.MarkdownAreaDir, c.opts.MarkdownDir, "*/*.md"},
		{c.opts.HTMLAreaDir, c.opts.HTMLDir, "*/*.html"},
	}

	for _, tree := range trees {
		if !storage.Exists(tree.root) {
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(tree.root), tree.pattern, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("glob %s: %w", tree.root, err)
		}
		sort.Strings(matches)

		for _, rel := range matches {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path.Base(rel) == "index.html" {
				continue
			}
			report.AreaFiles++
			copied := filepath.Join(tree.root, filepath.FromSlash(rel))
			source := filepath.Join(tree.flat, path.Base(rel))
			if issue, ok := compareCopy(copied, source); !ok {
				report.Issues = append(report.Issues, issue)
			}
		}
	}

	if storage.Exists(c.opts.HTMLAreaDir) {
		entries, err := os.ReadDir(c.opts.HTMLAreaDir)
		if err != nil {
			return fmt.Errorf("read %s: %w", c.opts.HTMLAreaDir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			index := filepath.Join(c.opts.HTMLAreaDir, e.Name(), "index.html")
			if !storage.Exists(index) {
				report.Issues = append(report.Issues, Issue{Kind: MissingIndex, Path: index})
			}
		}
		general := filepath.Join(c.opts.HTMLAreaDir, "index_general.html")
		if !storage.Exists(general) {
			report.Issues = append(report.Issues, Issue{Kind: MissingIndex, Path: general})
		}
	}
	return nil
}

func compareCopy(copied, source string) (Issue, bool) {
	want, err := os.ReadFile(source)
	if err != nil {
		return Issue{Kind: StaleCopy, Path: copied, Detail: "source " + source + " unreadable"}, false
	}
	got, err := os.ReadFile(copied)
	if err != nil {
		return Issue{Kind: Unreadable, Path: copied, Detail: err.Error()}, false
	}
	if !bytes.Equal(want, got) {
		return Issue{Kind: StaleCopy, Path: copied, Detail: "differs from " + source}, false
	}
	return Issue{}, true
}

// stems lists the file stems with ext directly under dir, ignoring index
// pages. A missing dir has no stems.
func stems(dir, ext string) (map[string]bool, error) {
	out := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ext || name == "index.html" {
			continue
		}
		out[strings.TrimSuffix(name, ext)] = true
	}
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
