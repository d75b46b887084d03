// Command report runs the disaster report pipeline over an EM-DAT extract:
// it loads and validates the dataset, cleans it, analyzes the recent window,
// and writes the chart and workbook artifacts.
//
// Usage:
//
//	go run ./cmd/report -dataset data/emdat.csv -out out -pdf
//
// With -serve the process stays up after the run and exposes /healthz,
// /readyz, and /metrics until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"

	httpadapter "github.com/hazelcove/emdat-report/internal/adapter/http"
	kafkaadapter "github.com/hazelcove/emdat-report/internal/adapter/kafka"
	"github.com/hazelcove/emdat-report/internal/config"
	"github.com/hazelcove/emdat-report/internal/dataset"
	"github.com/hazelcove/emdat-report/internal/domain"
	"github.com/hazelcove/emdat-report/internal/observability"
	"github.com/hazelcove/emdat-report/internal/pipeline"
	"github.com/hazelcove/emdat-report/internal/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	datasetPath := flag.String("dataset", cfg.DatasetPath, "path to the EM-DAT extract (.csv or .xlsx)")
	outDir := flag.String("out", cfg.OutDir, "output directory for charts and workbook")
	stylePath := flag.String("style", cfg.StylePath, "optional YAML chart style file")
	windowYears := flag.Int("window-years", cfg.WindowYears, "analysis window in years back from the latest event")
	bundlePDF := flag.Bool("pdf", cfg.BundlePDF, "bundle all charts into a single PDF instead of PNG files")
	impute := flag.String("impute", cfg.ImputeStrategy, "numeric imputation strategy: mean, median, mode, or zero")
	hemisphere := flag.String("hemisphere", "south", "season mapping: south or north")
	serve := flag.Bool("serve", false, "keep serving /healthz, /readyz, and /metrics after the run")
	debug := flag.Bool("debug", false, "dump the dataset profile after loading")
	flag.Parse()

	if *datasetPath == "" && flag.NArg() > 0 {
		*datasetPath = flag.Arg(0)
	}
	if *datasetPath == "" {
		flag.Usage()
		return errors.New("no dataset given: use -dataset or set DATASET_PATH")
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	style := report.DefaultStyle()
	if *stylePath != "" {
		style, err = report.LoadStyle(*stylePath)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	seasons := domain.SouthernSeasons
	if strings.EqualFold(*hemisphere, "north") {
		seasons = domain.NorthernSeasons
	}

	// Kafka publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	renderer := report.NewRenderer(style, *outDir, *bundlePDF, logger)

	p := pipeline.New(
		pipeline.LoaderFunc(dataset.Load),
		renderer,
		publisher,
		logger,
		metrics,
		pipeline.Options{
			WindowYears:    *windowYears,
			ImputeStrategy: domain.Strategy(*impute),
			Seasons:        seasons,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if *serve {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	res, err := p.Run(ctx, *datasetPath)
	if err != nil {
		return err
	}

	if *debug {
		spew.Dump(res.Exploration)
	}
	printSummary(res, *datasetPath)

	if *serve {
		logger.Info("report done, serving until interrupted", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	return nil
}

func printSummary(res *pipeline.Result, path string) {
	fmt.Println()
	fmt.Println("=== Disaster report summary ===")
	fmt.Printf("Dataset:            %s\n", path)
	fmt.Printf("Rows x columns:     %d x %d\n", res.Exploration.Rows, res.Exploration.Cols)
	fmt.Printf("Year range:         %d to %d\n", res.Exploration.MinYear, res.Exploration.MaxYear)
	fmt.Printf("Dates unified:      %d of %d\n", res.DateStats.Valid, res.DateStats.Total)
	fmt.Printf("Types imputed:      %d (mode: %s)\n", res.TypeClean.Imputed, res.TypeClean.Mode)
	fmt.Printf("Unknown locations:  %d countries, %d regions\n",
		res.GeoClean.ImputedCountries, res.GeoClean.ImputedRegions)
	for _, imp := range res.Imputations {
		fmt.Printf("Imputed %-18s %d values (%s)\n", string(imp.Field)+":", imp.Imputed, imp.Strategy)
	}
	fmt.Printf("Distinct values:    %d types, %d countries, %d regions\n",
		len(res.TypeClean.Distribution), res.GeoClean.Countries, res.GeoClean.Regions)
	fmt.Printf("Events in window:   %d\n", len(res.Recent))
	fmt.Printf("Busiest month:      %s\n", res.Seasonal.TopMonth)
	fmt.Printf("Busiest season:     %s\n", res.Seasonal.TopSeason)
	fmt.Printf("Peak year:          %d\n", res.Trends.PeakYear)
	fmt.Printf("Mean yearly change: %.1f%%\n", res.Trends.MeanChange)
	if len(res.Recent) > 0 {
		fmt.Println("Top disaster types in window:")
		for i, tc := range res.Trends.TopTypes {
			if i == 3 {
				break
			}
			share := 100 * float64(tc.Count) / float64(len(res.Recent))
			fmt.Printf("  %-14s %5d (%.1f%%)\n", tc.Type, tc.Count, share)
		}
	}
	fmt.Println("Artifacts:")
	for _, a := range res.Artifacts {
		fmt.Printf("  %s\n", a)
	}
	fmt.Printf("Done in %s.\n", res.Elapsed.Round(time.Millisecond))
}
