package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records run statistics in a registry owned by the pipeline.
type Metrics struct {
	registry *prometheus.Registry

	// Records by outcome: accepted, skipped, renamed
	Records *prometheus.CounterVec

	// Files written or failed per stage
	Files *prometheus.CounterVec

	// Annotations by status class, plus "already_annotated"
	Annotations *prometheus.CounterVec

	// Stage durations
	StageDuration *prometheus.HistogramVec

	// Areas produced by the last run
	Areas prometheus.Gauge

	// Unix time of the last completed run
	LastRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_records_total",
			Help: "Survey rows by load outcome",
		}, []string{"outcome"}),
		Files: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_files_total",
			Help: "Files produced per stage by result",
		}, []string{"stage", "result"}),
		Annotations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_annotations_total",
			Help: "Annotated documents by status",
		}, []string{"status"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dossier_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
		Areas: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dossier_areas",
			Help: "Number of areas in the last organization",
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dossier_last_run_timestamp_seconds",
			Help: "Completion time of the last run",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddRecords counts load outcomes.
func (m *Metrics) AddRecords(outcome string, n int) {
	if m != nil && n > 0 {
		m.Records.WithLabelValues(outcome).Add(float64(n))
	}
}

// AddFiles counts files for a stage.
func (m *Metrics) AddFiles(stage Stage, result string, n int) {
	if m != nil && n > 0 {
		m.Files.WithLabelValues(string(stage), result).Add(float64(n))
	}
}

// AddAnnotations counts annotation outcomes.
func (m *Metrics) AddAnnotations(status string, n int) {
	if m != nil && n > 0 {
		m.Annotations.WithLabelValues(status).Add(float64(n))
	}
}

// ObserveStage records a stage duration.
func (m *Metrics) ObserveStage(stage Stage, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
	}
}

// SetAreas records the number of areas.
func (m *Metrics) SetAreas(n int) {
	if m != nil {
		m.Areas.Set(float64(n))
	}
}

// MarkRun records the completion time.
func (m *Metrics) MarkRun(t time.Time) {
	if m != nil {
		m.LastRun.Set(float64(t.Unix()))
	}
}

// WriteTextfile writes the registry in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
