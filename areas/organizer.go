package areas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/dossier/source"
	"github.com/c360studio/dossier/storage"
	"github.com/google/uuid"
)

// DefaultResultsLink points at the ranked results spreadsheet.
const DefaultResultsLink = "../resultados_ordenados.xlsx"

// Options locates the flat profile trees and the area trees built from them.
type Options struct {
	MarkdownDir string
	HTMLDir     string

	MarkdownOut string
	HTMLOut     string

	IncludeUnspecified bool

	// ResultsLink is linked from the global index; empty omits the link.
	ResultsLink string
}

// Result reports what Organize produced.
type Result struct {
	Groups         []Group
	CopiedMarkdown int
	CopiedHTML     int

	// Missing lists flat-tree files that did not exist.
	Missing []storage.FileError
}

// Candidates is the number of distinct candidates placed in an area.
func (r Result) Candidates() int {
	return Candidates(r.Groups)
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithClock sets the time source for the generation date.
func WithClock(now func() time.Time) Option {
	return func(o *Organizer) {
		o.now = now
	}
}

// Organizer builds the per-area trees.
type Organizer struct {
	opts   Options
	now    func() time.Time
	logger *slog.Logger
}

// NewOrganizer creates an organizer.
func NewOrganizer(opts Options, logger *slog.Logger, options ...Option) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Organizer{opts: opts, now: time.Now, logger: logger}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Organize groups records by area and replaces both area trees.
//
// The new trees are assembled in temporary siblings of the targets and
// swapped in only once complete; any error before the swap leaves the
// previous trees as they were.
func (o *Organizer) Organize(ctx context.Context, records []source.CandidateRecord) (Result, error) {
	result := Result{Groups: GroupRecords(records, o.opts.IncludeUnspecified)}
	for _, rec := range Unnamed(records) {
		o.logger.Warn("Area has no usable name, grouped as unspecified",
			"stem", rec.FileStem,
			"area", rec.AreaPrimary)
	}
	suffix := uuid.NewString()[:8]

	stagedMD := o.opts.MarkdownOut + ".building-" + suffix
	stagedHTML := o.opts.HTMLOut + ".building-" + suffix
	defer os.RemoveAll(stagedMD)
	defer os.RemoveAll(stagedHTML)

	for _, dir := range []string{stagedMD, stagedHTML} {
		if err := storage.EnsureDir(dir); err != nil {
			return result, err
		}
	}

	s := newSorter()
	for _, g := range result.Groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := o.buildGroup(g, stagedMD, stagedHTML, s, &result); err != nil {
			return result, err
		}
	}

	general, err := s.renderGeneral(result.Groups, o.now(), o.allProfilesLink(), o.opts.ResultsLink)
	if err != nil {
		return result, err
	}
	if err := storage.WriteFileAtomic(filepath.Join(stagedHTML, GeneralIndexFile), general); err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := storage.SwapDir(stagedMD, o.opts.MarkdownOut, suffix); err != nil {
		return result, err
	}
	if err := storage.SwapDir(stagedHTML, o.opts.HTMLOut, suffix); err != nil {
		return result, err
	}

	o.logger.Info("Organized profiles by area",
		"areas", len(result.Groups),
		"candidates", result.Candidates(),
		"missing", len(result.Missing))
	return result, nil
}

func (o *Organizer) buildGroup(g Group, stagedMD, stagedHTML string, s *sorter, result *Result) error {
	mdDir := filepath.Join(stagedMD, g.Key)
	htmlDir := filepath.Join(stagedHTML, g.Key)
	for _, dir := range []string{mdDir, htmlDir} {
		if err := storage.EnsureDir(dir); err != nil {
			return err
		}
	}

	for _, m := range g.Members {
		copied, err := o.copyMember(o.opts.HTMLDir, htmlDir, m.FileStem+".html", g, result)
		if err != nil {
			return err
		}
		if copied {
			result.CopiedHTML++
		}

		copied, err = o.copyMember(o.opts.MarkdownDir, mdDir, m.FileStem+".md", g, result)
		if err != nil {
			return err
		}
		if copied {
			result.CopiedMarkdown++
		}
	}

	index, err := s.renderArea(g)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(filepath.Join(htmlDir, AreaIndexFile), index); err != nil {
		return err
	}
	o.logger.Debug("Built area", "area", g.Label, "key", g.Key, "members", len(g.Members))
	return nil
}

// copyMember copies one file; a missing source is recorded, not fatal.
func (o *Organizer) copyMember(srcDir, dstDir, name string, g Group, result *Result) (bool, error) {
	src := filepath.Join(srcDir, name)
	err := storage.CopyFile(src, filepath.Join(dstDir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		result.Missing = append(result.Missing, storage.FileError{Path: src, Err: err})
		o.logger.Warn("Profile not found for area", "file", src, "area", g.Label)
		return false, nil
	default:
		return false, fmt.Errorf("copy into area %s: %w", g.Key, err)
	}
}

// allProfilesLink points from the HTML area tree to the flat collection index.
func (o *Organizer) allProfilesLink() string {
	rel, err := filepath.Rel(o.opts.HTMLOut, o.opts.HTMLDir)
	if err != nil {
		rel = filepath.Join("..", filepath.Base(o.opts.HTMLDir))
	}
	return filepath.ToSlash(rel) + "/index.html"
}
