// Package pipeline runs the profile generation stages in order over a single
// record list: load, Markdown, HTML, status annotation and area organization.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/dossier/areas"
	"github.com/c360studio/dossier/catalog"
	"github.com/c360studio/dossier/config"
	"github.com/c360studio/dossier/profile"
	"github.com/c360studio/dossier/render/html"
	"github.com/c360studio/dossier/render/markdown"
	"github.com/c360studio/dossier/source"
	"github.com/c360studio/dossier/status"
	"github.com/google/uuid"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the time source used for reports and index dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithMetrics replaces the pipeline's metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// Pipeline wires the stage components from a configuration.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	loader    *source.Loader
	table     *status.Table
	builder   *profile.Builder
	markdown  *markdown.Renderer
	html      *html.Renderer
	annotator *status.Annotator
	organizer *areas.Organizer
}

// New builds a pipeline. The status table and catalog overrides are read
// here, so a malformed file fails before any output is touched.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pipeline{cfg: cfg, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}

	cat := catalog.Default()
	if cfg.Catalog.LabelsFile != "" {
		overrides, err := catalog.LoadOverrides(cfg.Catalog.LabelsFile)
		if err != nil {
			return nil, err
		}
		cat.Apply(overrides)
	}

	table, err := status.LoadTable(cfg.Status.TableFile)
	if err != nil {
		return nil, err
	}
	p.table = table

	p.loader = source.NewLoader(source.Options{
		Delimiter:         cfg.Delimiter(),
		Encoding:          cfg.Input.Encoding,
		IdentityField:     cfg.Input.IdentityField,
		SurnameField:      cfg.Input.SurnameField,
		AreaField:         cfg.Input.AreaField,
		Placeholders:      cfg.Input.Placeholders,
		ShortPlaceholders: cfg.Input.ShortPlaceholders,
	}, logger)

	var builderOpts []profile.Option
	if cfg.Status.Inline {
		builderOpts = append(builderOpts, profile.WithStatus(table))
	}
	p.builder = profile.NewBuilder(cat, cfg.Input.IdentityField, cfg.Input.SurnameField, builderOpts...)

	p.markdown = markdown.NewRenderer(logger)
	p.html, err = html.NewRenderer(html.Source(cfg.HTML.Source), logger)
	if err != nil {
		return nil, err
	}
	p.annotator = status.NewAnnotator(table, logger)
	p.organizer = areas.NewOrganizer(areas.Options{
		MarkdownDir:        cfg.Output.MarkdownDir,
		HTMLDir:            cfg.Output.HTMLDir,
		MarkdownOut:        cfg.Output.MarkdownAreaDir,
		HTMLOut:            cfg.Output.HTMLAreaDir,
		IncludeUnspecified: cfg.Areas.IncludeUnspecified,
		ResultsLink:        cfg.Areas.ResultsLink,
	}, logger, areas.WithClock(func() time.Time { return p.now() }))

	return p, nil
}

// Metrics returns the pipeline's metrics.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

// Table returns the loaded status classification.
func (p *Pipeline) Table() *status.Table {
	return p.table
}

// Run executes every stage.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	return p.RunStages(ctx, AllStages()...)
}

// RunStages executes the requested stages in pipeline order. The load stage
// is added whenever a later stage needs records. A fatal error stops the run
// and is returned with the partial report; per-file failures are collected
// in the report.
func (p *Pipeline) RunStages(ctx context.Context, stages ...Stage) (*Report, error) {
	want := make(map[Stage]bool, len(stages))
	for _, s := range stages {
		want[s] = true
	}
	if want[StageMarkdown] || want[StageHTML] || want[StageAreas] {
		want[StageLoad] = true
	}

	report := &Report{RunID: uuid.NewString(), Started: p.now()}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("Starting run", "stages", len(want))

	var (
		batch *source.Batch
		docs  []profile.Document
	)

	for _, stage := range AllStages() {
		if !want[stage] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		start := time.Now()
		var err error
		switch stage {
		case StageLoad:
			batch, err = p.load(ctx, report)
			if err == nil {
				docs = p.builder.BuildAll(batch.Records)
			}
		case StageMarkdown:
			err = p.writeMarkdown(ctx, docs, report)
		case StageHTML:
			err = p.writeHTML(ctx, docs, report)
		case StageAnnotate:
			err = p.annotate(ctx, report, !want[StageAreas])
		case StageAreas:
			err = p.organize(ctx, batch, report)
		}
		p.metrics.ObserveStage(stage, time.Since(start))
		if err != nil {
			logger.Error("Stage failed", "stage", stage, "error", err)
			return report, fmt.Errorf("%s stage: %w", stage, err)
		}
		report.Stages = append(report.Stages, stage)
		logger.Debug("Stage complete", "stage", stage, "duration", time.Since(start))
	}

	report.Duration = p.now().Sub(report.Started)
	p.metrics.MarkRun(p.now())
	if p.cfg.Metrics.Textfile != "" {
		if err := p.metrics.WriteTextfile(p.cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics", "file", p.cfg.Metrics.Textfile, "error", err)
		}
	}

	logger.Info("Run complete",
		"accepted", report.Accepted,
		"failures", len(report.Failures),
		"duration", report.Duration)
	return report, nil
}

func (p *Pipeline) load(ctx context.Context, report *Report) (*source.Batch, error) {
	batch, err := p.loader.Load(ctx, p.cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	report.Accepted = len(batch.Records)
	report.Skipped = batch.Skipped
	report.Renamed = batch.Renamed
	p.metrics.AddRecords("accepted", report.Accepted)
	p.metrics.AddRecords("skipped", report.Skipped)
	p.metrics.AddRecords("renamed", report.Renamed)
	p.logger.Info("Loaded candidates",
		"file", p.cfg.Input.Path,
		"accepted", report.Accepted,
		"skipped", report.Skipped)
	return batch, nil
}

func (p *Pipeline) writeMarkdown(ctx context.Context, docs []profile.Document, report *Report) error {
	result, err := p.markdown.WriteAll(ctx, p.cfg.Output.MarkdownDir, docs)
	report.Markdown = len(result.Written)
	report.addFailures(StageMarkdown, result.Failures)
	p.metrics.AddFiles(StageMarkdown, "written", len(result.Written))
	p.metrics.AddFiles(StageMarkdown, "failed", len(result.Failures))
	return err
}

func (p *Pipeline) writeHTML(ctx context.Context, docs []profile.Document, report *Report) error {
	result, err := p.html.WriteAll(ctx, p.cfg.Output.HTMLDir, docs)
	report.HTML = len(result.Written)
	report.addFailures(StageHTML, result.Failures)
	p.metrics.AddFiles(StageHTML, "written", len(result.Written))
	p.metrics.AddFiles(StageHTML, "failed", len(result.Failures))
	return err
}

// annotate marks the flat trees. Existing area trees are marked too unless
// the areas stage will rebuild them from the flat trees in this run.
func (p *Pipeline) annotate(ctx context.Context, report *Report, areaTrees bool) error {
	roots := []string{p.cfg.Output.MarkdownDir, p.cfg.Output.HTMLDir}
	if areaTrees {
		roots = append(roots, p.cfg.Output.MarkdownAreaDir, p.cfg.Output.HTMLAreaDir)
	}
	summary, err := p.annotator.Annotate(ctx, roots...)
	report.Hesitant = summary.Hesitant
	report.Confident = summary.Confident
	report.AlreadyAnnotated = summary.AlreadyAnnotated
	report.addFailures(StageAnnotate, summary.Failures)
	p.metrics.AddAnnotations(string(status.Hesitant), summary.Hesitant)
	p.metrics.AddAnnotations(string(status.Confident), summary.Confident)
	p.metrics.AddAnnotations("already_annotated", summary.AlreadyAnnotated)
	p.metrics.AddFiles(StageAnnotate, "written", summary.Processed())
	p.metrics.AddFiles(StageAnnotate, "failed", len(summary.Failures))
	return err
}

func (p *Pipeline) organize(ctx context.Context, batch *source.Batch, report *Report) error {
	result, err := p.organizer.Organize(ctx, batch.Records)
	if err != nil {
		return err
	}
	report.Areas = len(result.Groups)
	report.AreaCandidates = result.Candidates()
	report.AreaCopies = result.CopiedMarkdown + result.CopiedHTML
	report.Missing = len(result.Missing)
	p.metrics.SetAreas(report.Areas)
	p.metrics.AddFiles(StageAreas, "written", report.AreaCopies)
	p.metrics.AddFiles(StageAreas, "missing", report.Missing)
	return nil
}
