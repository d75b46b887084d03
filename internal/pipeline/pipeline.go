// Package pipeline orchestrates a report run: load, clean, analyze, render,
// and optionally publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hazelcove/emdat-report/internal/analysis"
	"github.com/hazelcove/emdat-report/internal/dataset"
	"github.com/hazelcove/emdat-report/internal/domain"
	"github.com/hazelcove/emdat-report/internal/observability"
	"github.com/hazelcove/emdat-report/internal/report"
)

// ErrInvalidStructure is returned when the dataset lacks required columns.
// Callers match it with errors.Is; the wrapped message names the columns.
var ErrInvalidStructure = errors.New("dataset is missing required columns")

// Loader reads the source dataset from a path.
type Loader interface {
	Load(path string) (*dataset.Dataset, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (*dataset.Dataset, error)

func (f LoaderFunc) Load(path string) (*dataset.Dataset, error) { return f(path) }

// Renderer writes the chart and workbook artifacts for a run.
type Renderer interface {
	Render(ctx context.Context, in report.Input) ([]string, error)
}

// Publisher emits the cleaned records to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, records []domain.EventRecord) error
}

// Options tune a report run.
type Options struct {
	WindowYears    int
	ImputeStrategy domain.Strategy
	Seasons        domain.SeasonTable
}

// Result is everything a run produced, for the caller to summarize.
type Result struct {
	Exploration dataset.Exploration
	Validation  dataset.Validation
	DateStats   domain.DateStats
	TypeClean   domain.TypeCleanStats
	GeoClean    domain.GeoCleanStats
	Imputations []domain.ImputeStats

	Full   []domain.EventRecord
	Recent []domain.EventRecord

	Seasonal analysis.SeasonalResult
	Trends   analysis.TrendResult

	Artifacts   []string
	GeneratedAt time.Time
	Elapsed     time.Duration
}

// Pipeline runs the load-clean-analyze-render sequence over one dataset.
type Pipeline struct {
	loader    Loader
	renderer  Renderer
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
// A nil publisher skips the publish stage entirely.
func New(l Loader, r Renderer, p Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	return &Pipeline{
		loader:    l,
		renderer:  r,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one run,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no report generated yet")
	}
	return nil
}

// Run executes one complete report run over the dataset at path.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	p.logger.Info("report run started", "dataset", path, "window_years", p.opts.WindowYears)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	res := &Result{}

	ds, err := p.loadStage(ctx, path, res)
	if err != nil {
		return nil, err
	}
	if err := p.cleanStage(ctx, ds, res); err != nil {
		return nil, err
	}
	if err := p.analyzeStage(ctx, res); err != nil {
		return nil, err
	}
	if err := p.renderStage(ctx, res); err != nil {
		return nil, err
	}
	if err := p.publishStage(ctx, res); err != nil {
		return nil, err
	}

	res.GeneratedAt = domain.Now()
	res.Elapsed = time.Since(start)
	p.ready.Store(true)
	p.logger.Info("report run finished",
		"records", len(res.Full),
		"artifacts", len(res.Artifacts),
		"elapsed", res.Elapsed,
	)
	return res, nil
}

func (p *Pipeline) loadStage(ctx context.Context, path string, res *Result) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer p.observeStage("load", time.Now())

	ds, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	p.metrics.RecordsLoaded.Add(float64(len(ds.Records)))

	res.Exploration = dataset.Explore(ds)
	p.logger.Info("dataset loaded",
		"rows", res.Exploration.Rows,
		"cols", res.Exploration.Cols,
		"min_year", res.Exploration.MinYear,
		"max_year", res.Exploration.MaxYear,
	)
	for _, ns := range res.Exploration.NullShares {
		p.logger.Debug("column blanks", "column", ns.Column, "share", ns.Share)
	}

	res.Validation = dataset.Validate(ds)
	if !res.Validation.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructure, res.Validation.MissingColumns)
	}
	return ds, nil
}

func (p *Pipeline) cleanStage(ctx context.Context, ds *dataset.Dataset, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer p.observeStage("clean", time.Now())

	records := ds.Records

	res.DateStats = domain.UnifyDates(records)
	p.metrics.DatesValid.Add(float64(res.DateStats.Valid))
	p.metrics.DatesInvalid.Add(float64(res.DateStats.Total - res.DateStats.Valid))
	p.logger.Info("dates unified", "valid", res.DateStats.Valid, "total", res.DateStats.Total)

	res.TypeClean = domain.CleanDisasterType(records)
	p.metrics.ValuesImputed.WithLabelValues("disaster_type").Add(float64(res.TypeClean.Imputed))
	p.logger.Info("disaster types cleaned",
		"imputed", res.TypeClean.Imputed,
		"mode", res.TypeClean.Mode,
		"categories", len(res.TypeClean.Distribution),
	)

	res.GeoClean = domain.CleanGeography(records)
	p.metrics.ValuesImputed.WithLabelValues("country").Add(float64(res.GeoClean.ImputedCountries))
	p.metrics.ValuesImputed.WithLabelValues("region").Add(float64(res.GeoClean.ImputedRegions))
	p.logger.Info("geography cleaned",
		"imputed_countries", res.GeoClean.ImputedCountries,
		"imputed_regions", res.GeoClean.ImputedRegions,
		"countries", res.GeoClean.Countries,
		"regions", res.GeoClean.Regions,
	)

	for _, field := range []domain.NumericField{domain.FieldTotalDeaths, domain.FieldTotalAffected} {
		stats, err := domain.ImputeNumeric(records, field, p.opts.ImputeStrategy)
		if err != nil {
			return fmt.Errorf("impute %s: %w", field, err)
		}
		if stats.FellBack {
			p.logger.Warn("unknown impute strategy, using mean", "requested", p.opts.ImputeStrategy)
		}
		p.metrics.ValuesImputed.WithLabelValues(string(field)).Add(float64(stats.Imputed))
		p.logger.Info("numeric column imputed",
			"column", field,
			"strategy", stats.Strategy,
			"imputed", stats.Imputed,
			"fill_value", stats.Value,
		)
		res.Imputations = append(res.Imputations, stats)
	}

	domain.DeriveFeatures(records)
	res.Full = records
	return nil
}

func (p *Pipeline) analyzeStage(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer p.observeStage("analyze", time.Now())

	res.Recent = analysis.FilterRecentYears(res.Full, p.opts.WindowYears)
	res.Seasonal = analysis.Seasonal(res.Recent, p.opts.Seasons)
	res.Trends = analysis.Trends(res.Recent)

	p.logger.Info("window analyzed",
		"window_records", len(res.Recent),
		"top_month", res.Seasonal.TopMonth,
		"top_season", res.Seasonal.TopSeason,
		"peak_year", res.Trends.PeakYear,
		"mean_change_pct", res.Trends.MeanChange,
	)
	return nil
}

func (p *Pipeline) renderStage(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer p.observeStage("render", time.Now())

	artifacts, err := p.renderer.Render(ctx, report.Input{
		Full:     res.Full,
		Recent:   res.Recent,
		Seasonal: res.Seasonal,
		Trends:   res.Trends,
	})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	res.Artifacts = artifacts
	p.metrics.ArtifactsWritten.Add(float64(len(artifacts)))
	return nil
}

func (p *Pipeline) publishStage(ctx context.Context, res *Result) error {
	if p.publisher == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	defer p.observeStage("publish", time.Now())

	if err := p.publisher.Publish(ctx, res.Full); err != nil {
		return fmt.Errorf("publish records: %w", err)
	}
	p.metrics.RecordsPublished.Add(float64(len(res.Full)))
	return nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
