package pipeline

import (
	"fmt"
	"time"

	"github.com/c360studio/dossier/storage"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageLoad     Stage = "load"
	StageMarkdown Stage = "markdown"
	StageHTML     Stage = "html"
	StageAnnotate Stage = "annotate"
	StageAreas    Stage = "areas"
)

// AllStages lists the stages in execution order.
func AllStages() []Stage {
	return []Stage{StageLoad, StageMarkdown, StageHTML, StageAnnotate, StageAreas}
}

// Failure is a recoverable, per-file error.
type Failure struct {
	Stage Stage
	Path  string
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Stage, f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report aggregates the outcome of one run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Stages   []Stage

	Accepted int
	Skipped  int
	Renamed  int

	Markdown int
	HTML     int

	Hesitant         int
	Confident        int
	AlreadyAnnotated int

	Areas          int
	AreaCandidates int
	AreaCopies     int
	Missing        int

	Failures []Failure
}

// Annotated returns the number of documents given a glyph in this run.
func (r *Report) Annotated() int {
	return r.Hesitant + r.Confident
}

// Ran reports whether stage executed.
func (r *Report) Ran(stage Stage) bool {
	for _, s := range r.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

func (r *Report) addFailures(stage Stage, errs []storage.FileError) {
	for _, e := range errs {
		r.Failures = append(r.Failures, Failure{Stage: stage, Path: e.Path, Err: e.Err})
	}
}
