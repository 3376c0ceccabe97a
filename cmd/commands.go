package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/UnknownOlympus/labelmap/internal/basemap"
	"github.com/UnknownOlympus/labelmap/internal/centroids"
	"github.com/UnknownOlympus/labelmap/internal/config"
	"github.com/UnknownOlympus/labelmap/internal/geocoding"
	"github.com/UnknownOlympus/labelmap/internal/hook"
	"github.com/UnknownOlympus/labelmap/internal/layout"
	"github.com/UnknownOlympus/labelmap/internal/metrics"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/names"
	"github.com/UnknownOlympus/labelmap/internal/render"
	"github.com/UnknownOlympus/labelmap/internal/repository"
	"github.com/UnknownOlympus/labelmap/internal/service"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	reg     *prometheus.Registry
	metrics *metrics.Metrics
}

func newApp() *app {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	// Create a separate registry so the text file only carries our series.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &app{cfg: cfg, log: logger, reg: reg, metrics: metrics.NewMetrics(reg)}
}

// flushMetrics writes the registry to the configured text file, if any.
func (a *app) flushMetrics(ctx context.Context) {
	if a.cfg.Paths.Metrics == "" {
		return
	}
	if err := metrics.WriteFile(a.cfg.Paths.Metrics, a.reg); err != nil {
		a.log.ErrorContext(ctx, "Failed to write metrics", "path", a.cfg.Paths.Metrics, "error", err)
	}
}

func (a *app) bounds() orb.Bound {
	return orb.Bound{
		Min: orb.Point{a.cfg.Canvas.MinLon, a.cfg.Canvas.MinLat},
		Max: orb.Point{a.cfg.Canvas.MaxLon, a.cfg.Canvas.MaxLat},
	}
}

func (a *app) dictionary() (*names.Dictionary, error) {
	if a.cfg.Paths.Worklist == "" {
		return names.DefaultDictionary()
	}
	return names.LoadDictionary(a.cfg.Paths.Worklist)
}

// openRepository connects to postgres. The returned func closes the pool.
func (a *app) openRepository(ctx context.Context) (repository.Interface, func(), error) {
	db := a.cfg.Database
	pool, err := repository.NewDatabase(ctx, db.Host, db.Port, db.User, db.Password, db.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return repository.NewRepository(pool, a.log), pool.Close, nil
}

// loadStore builds the centroid store from the configured source.
func (a *app) loadStore(ctx context.Context) (*centroids.Store, error) {
	if a.cfg.Source == config.SourcePostgres {
		repo, closeDB, err := a.openRepository(ctx)
		if err != nil {
			return nil, err
		}
		defer closeDB()
		return centroids.Load(ctx, repo)
	}

	return centroids.Load(ctx, centroids.FileSource{
		BasePath:      a.cfg.Paths.Centroids,
		OverridesPath: a.cfg.Paths.Overrides,
	})
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer a.flushMetrics(ctx)

	dict, err := a.dictionary()
	if err != nil {
		return err
	}
	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}

	report, err := pipeline.Run(ctx, dict.Worklist, dict.Resolver(), store)
	if err != nil {
		var layoutErr *models.LayoutError
		if errors.As(err, &layoutErr) {
			a.log.ErrorContext(ctx, "Layout failed, nothing was written", "error", err)
		}
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	a.runHooks(ctx, report.Outputs)

	return nil
}

// pipeline wires the solver, font, projection and exporters together.
func (a *app) pipeline() (*service.Pipeline, error) {
	cfg := a.cfg

	policy, err := render.ParsePolicy(cfg.Layout.Policy)
	if err != nil {
		return nil, &models.ConfigError{Source: "layout.policy", Key: cfg.Layout.Policy, Err: err}
	}

	solver, err := layout.NewSolver(layout.SolverConfig{
		Type:    layout.SolverType(cfg.Layout.Solver),
		Force:   cfg.Layout.Force,
		MinStep: cfg.Layout.MinStep,
		Padding: cfg.Layout.Padding,
		Seed:    cfg.Layout.Seed,
	})
	if err != nil {
		return nil, &models.ConfigError{Source: "layout.solver", Key: cfg.Layout.Solver, Err: err}
	}

	face, err := render.NewFace(cfg.Render.FontSize, cfg.Render.DPI)
	if err != nil {
		return nil, err
	}

	bounds := a.bounds()
	proj := render.NewProjection(bounds, cfg.Render.Width)
	style := render.Style{FontSize: cfg.Render.FontSize, DPI: cfg.Render.DPI, Face: face}

	exporters := make([]render.Exporter, 0, len(cfg.Render.Formats))
	for _, format := range cfg.Render.Formats {
		exporter, errExp := render.NewExporter(format, proj, style)
		if errExp != nil {
			return nil, &models.ConfigError{Source: "render.formats", Key: format, Err: errExp}
		}
		exporters = append(exporters, exporter)
	}

	var bm *basemap.Basemap
	if cfg.Paths.Basemap != "" {
		if bm, err = basemap.Load(cfg.Paths.Basemap); err != nil {
			return nil, err
		}
	}

	engine := layout.NewEngine(solver, render.NewFontMeasurer(face, proj.Scale()), bounds, cfg.Layout.Iterations, a.log)

	return service.NewPipeline(a.log, engine, exporters, bm, a.metrics, service.PipelineConfig{
		Policy:     policy,
		Threshold:  cfg.Layout.Threshold,
		Bounds:     bounds,
		Title:      cfg.Render.Title,
		OutputDir:  cfg.Paths.OutputDir,
		OutputName: cfg.Render.Name,
	}), nil
}

// runHooks tiles and opens the SVG output when configured. Hook failures
// leave the rendered map in place and are only logged.
func (a *app) runHooks(ctx context.Context, outputs []string) {
	var svgPath string
	for _, path := range outputs {
		if filepath.Ext(path) == ".svg" {
			svgPath = path
			break
		}
	}
	if svgPath == "" {
		return
	}

	hooks := []*hook.Hook{hook.New("tile", a.cfg.Hook.TileCommand, nil, a.log)}
	if a.cfg.Hook.Open || openOutput {
		hooks = append(hooks, hook.New("open", a.cfg.Hook.Command, nil, a.log))
	}
	for _, h := range hooks {
		if err := h.Run(ctx, svgPath); err != nil {
			a.log.WarnContext(ctx, "Hook failed", "path", svgPath, "error", err)
		}
	}
}

func printReport(w io.Writer, report *service.Report) {
	for _, key := range report.Missing {
		fmt.Fprintf(w, "Missing centroid: %s\n", key)
	}
	fmt.Fprintf(w, "Rendered %d labels (%d pinned), %d connectors, %d missing\n",
		len(report.Rendered), report.Pinned, report.Connectors, len(report.Missing))
	if !report.Converged {
		fmt.Fprintf(w, "Layout did not converge after %d iterations\n", report.Iterations)
	}
	for _, path := range report.Outputs {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp()

	dict, err := a.dictionary()
	if err != nil {
		return err
	}
	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	diag := dict.Resolver().Validate(dict.Worklist, store)
	printDiagnostic(cmd.OutOrStdout(), diag)
	if !diag.OK() {
		return fmt.Errorf("%d worklist entries have no centroid", len(diag.Unmatched))
	}
	return nil
}

func printDiagnostic(w io.Writer, diag names.Diagnostic) {
	for _, m := range diag.Unmatched {
		if m.Entry == m.Canonical {
			fmt.Fprintf(w, "Unmatched: %s\n", m.Entry)
		} else {
			fmt.Fprintf(w, "Unmatched: %s (resolved to %s)\n", m.Entry, m.Canonical)
		}
	}
	for _, key := range diag.Unused {
		fmt.Fprintf(w, "Unused: %s\n", key)
	}
	fmt.Fprintf(w, "%d unmatched, %d unused\n", len(diag.Unmatched), len(diag.Unused))
}

func runGeocode(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer a.flushMetrics(ctx)
	cfg := a.cfg

	dict, err := a.dictionary()
	if err != nil {
		return err
	}

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Provider),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		Logger:    a.log,
	})
	if err != nil {
		return &models.ConfigError{Source: "geocoder.provider", Key: cfg.Geocoder.Provider, Err: err}
	}
	a.log.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Provider)

	backfill := service.NewBackfillService(a.log, provider, cfg.Geocoder.Provider, a.metrics, cfg.Geocoder.Workers)
	resolver := dict.Resolver()

	var report *service.BackfillReport
	if cfg.Source == config.SourcePostgres {
		repo, closeDB, errDB := a.openRepository(ctx)
		if errDB != nil {
			return errDB
		}
		defer closeDB()

		if err = repo.Migrate(ctx); err != nil {
			return err
		}
		store, errLoad := centroids.Load(ctx, repo)
		if errLoad != nil {
			return errLoad
		}
		report = backfill.Run(ctx, service.MissingKeys(dict.Worklist, resolver, store), repo)
	} else {
		records, errOpen := centroids.OpenRecordFile(cfg.Paths.Centroids)
		if errOpen != nil {
			return errOpen
		}
		overrides, errOv := centroids.FileSource{OverridesPath: cfg.Paths.Overrides}.OverrideRecords(ctx)
		if errOv != nil {
			return errOv
		}
		store, errBuild := centroids.Build(records.Records(), overrides)
		if errBuild != nil {
			return errBuild
		}
		report = backfill.Run(ctx, service.MissingKeys(dict.Worklist, resolver, store), records)
		if len(report.Geocoded) > 0 {
			if err = records.Flush(); err != nil {
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	for _, key := range report.Failed {
		fmt.Fprintf(out, "Failed: %s\n", key)
	}
	fmt.Fprintf(out, "Geocoded %d, failed %d\n", len(report.Geocoded), len(report.Failed))
	return nil
}
