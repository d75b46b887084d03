package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report pipeline.
type Metrics struct {
	RecordsLoaded    prometheus.Counter
	DatesValid       prometheus.Counter
	DatesInvalid     prometheus.Counter
	RecordsPublished prometheus.Counter
	ArtifactsWritten prometheus.Counter
	PipelineRunning  prometheus.Gauge

	ValuesImputed *prometheus.CounterVec   // labels: column={disaster_type,country,region,total_deaths,total_affected}
	StageDuration *prometheus.HistogramVec // labels: stage={load,clean,analyze,render,publish}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_report",
			Name:      "records_loaded_total",
			Help:      "Total rows parsed from the source dataset.",
		}),
		DatesValid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_report",
			Name:      "dates_valid_total",
			Help:      "Records whose start date unified into a calendar date.",
		}),
		DatesInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_report",
			Name:      "dates_invalid_total",
			Help:      "Records left without a date after unification.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_report",
			Name:      "records_published_total",
			Help:      "Cleaned records written to the sink topic.",
		}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_report",
			Name:      "artifacts_written_total",
			Help:      "Chart and workbook files written to the output directory.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_report",
			Name:      "pipeline_running",
			Help:      "1 while a report run is in progress, 0 otherwise.",
		}),
		ValuesImputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_report",
			Name:      "values_imputed_total",
			Help:      "Missing values filled during cleaning, by column.",
		}, []string{"column"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "disaster_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
	}

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.DatesValid,
		m.DatesInvalid,
		m.RecordsPublished,
		m.ArtifactsWritten,
		m.PipelineRunning,
		m.ValuesImputed,
		m.StageDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsLoaded:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_report", Name: "records_loaded_total"}),
		DatesValid:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_report", Name: "dates_valid_total"}),
		DatesInvalid:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_report", Name: "dates_invalid_total"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_report", Name: "records_published_total"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "disaster_report", Name: "artifacts_written_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "disaster_report", Name: "pipeline_running"}),
		ValuesImputed:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "disaster_report", Name: "values_imputed_total"}, []string{"column"}),
		StageDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "disaster_report", Name: "stage_duration_seconds"}, []string{"stage"}),
	}
}
