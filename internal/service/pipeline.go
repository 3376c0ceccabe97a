// Package service runs the map pipeline and the centroid backfill.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/labelmap/internal/basemap"
	"github.com/UnknownOlympus/labelmap/internal/layout"
	"github.com/UnknownOlympus/labelmap/internal/metrics"
	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/UnknownOlympus/labelmap/internal/names"
	"github.com/UnknownOlympus/labelmap/internal/render"
	"github.com/paulmach/orb"
)

// Placer computes final text positions for a batch of labels.
type Placer interface {
	Place(ctx context.Context, items, fixed []layout.Item) (*layout.Result, error)
}

// PipelineConfig holds the per-run settings of a Pipeline.
type PipelineConfig struct {
	Policy     render.Policy
	Threshold  float64   // Threshold is the connector displacement threshold in canvas units.
	Bounds     orb.Bound // Bounds is the canvas extent.
	Title      string
	OutputDir  string
	OutputName string // OutputName is the file name without extension.
}

// Pipeline resolves a worklist, lays out the labels, decides connectors and
// exports the drawing.
type Pipeline struct {
	log       *slog.Logger
	placer    Placer
	exporters []render.Exporter
	basemap   *basemap.Basemap
	metrics   *metrics.Metrics
	cfg       PipelineConfig
}

// NewPipeline creates a Pipeline. basemap may be nil.
func NewPipeline(
	log *slog.Logger,
	placer Placer,
	exporters []render.Exporter,
	bm *basemap.Basemap,
	metrics *metrics.Metrics,
	cfg PipelineConfig,
) *Pipeline {
	return &Pipeline{
		log:       log,
		placer:    placer,
		exporters: exporters,
		basemap:   bm,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Report summarises a pipeline run.
type Report struct {
	Rendered   []string         // Rendered are the canonical keys drawn, in worklist order.
	Missing    []string         // Missing are canonical keys absent from the store, in worklist order.
	Unmatched  []names.Mismatch // Unmatched is the worklist side of the validation diagnostic.
	Unused     []string         // Unused are store keys never referenced by the worklist.
	Decisions  []render.Decision
	Connectors int
	Pinned     int
	Iterations int
	Converged  bool
	Outputs    []string // Outputs are the paths of the exported files.
	Canvas     *render.Canvas
}

// Run executes the pipeline once. Missing entities are reported and skipped;
// layout and export failures abort the run.
func (p *Pipeline) Run(
	ctx context.Context,
	worklist []string,
	resolver *names.Resolver,
	store names.EntityLookup,
) (*Report, error) {
	diag := resolver.Validate(worklist, store)
	report := &Report{Unmatched: diag.Unmatched, Unused: diag.Unused, Converged: true}
	if len(diag.Unused) > 0 {
		p.log.InfoContext(ctx, "Store entries not referenced by the worklist", "count", len(diag.Unused))
	}

	placements, err := p.placements(ctx, worklist, resolver, store, report)
	if err != nil {
		return nil, err
	}

	if err = p.layout(ctx, placements, report); err != nil {
		return nil, err
	}

	canvas := render.NewCanvas(p.cfg.Bounds)
	if p.basemap != nil {
		p.basemap.Draw(canvas)
	}
	for _, placement := range placements {
		report.Decisions = append(report.Decisions, render.Decide(placement, p.cfg.Policy, p.cfg.Threshold))
	}
	report.Connectors = render.Draw(canvas, report.Decisions)
	if p.cfg.Title != "" {
		canvas.AddTitle(p.cfg.Title)
	}
	report.Canvas = canvas

	for _, exporter := range p.exporters {
		path, errExport := render.ExportFile(p.cfg.OutputDir, p.cfg.OutputName, exporter, canvas)
		if errExport != nil {
			return nil, errExport
		}
		p.log.InfoContext(ctx, "Map exported", "format", exporter.Format(), "path", path)
		report.Outputs = append(report.Outputs, path)
	}

	p.record(report)
	p.log.InfoContext(ctx, "Pipeline finished",
		"rendered", len(report.Rendered),
		"missing", len(report.Missing),
		"pinned", report.Pinned,
		"connectors", report.Connectors,
	)
	return report, nil
}

// placements resolves every worklist entry to a placement. Entries missing
// from the store are collected in the report.
func (p *Pipeline) placements(
	ctx context.Context,
	worklist []string,
	resolver *names.Resolver,
	store names.EntityLookup,
	report *Report,
) ([]models.Placement, error) {
	seen := make(map[string]struct{}, len(worklist))
	placements := make([]models.Placement, 0, len(worklist))

	for _, entry := range worklist {
		entity, err := resolver.Entity(entry, store)
		canonical := entity.Key
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			canonical = notFound.Key
		} else if err != nil {
			return nil, fmt.Errorf("failed to look up %q: %w", entry, err)
		}

		if _, dup := seen[canonical]; dup {
			p.log.WarnContext(ctx, "Worklist entries resolve to the same entity, skipping", "entry", entry, "key", canonical)
			continue
		}
		seen[canonical] = struct{}{}

		if notFound != nil {
			p.log.WarnContext(ctx, "Could not find entity", "entry", entry, "key", canonical)
			report.Missing = append(report.Missing, canonical)
			continue
		}

		pinned := !p.cfg.Policy.Adjustable(entity)
		if pinned {
			report.Pinned++
		}
		placements = append(placements, models.Placement{
			Key:     canonical,
			Label:   resolver.DisplayLabel(canonical),
			Initial: entity.Text.Point(),
			Final:   entity.Text.Point(),
			Anchor:  entity.Anchor.Point(),
			Pinned:  pinned,
		})
		report.Rendered = append(report.Rendered, canonical)
	}

	return placements, nil
}

// layout runs the placer over the adjustable placements and writes the final
// positions back. Pinned placements keep their initial position.
func (p *Pipeline) layout(ctx context.Context, placements []models.Placement, report *Report) error {
	var items, fixed []layout.Item
	for _, pl := range placements {
		item := layout.Item{Key: pl.Key, Label: pl.Label, Initial: pl.Initial, Anchor: pl.Anchor}
		if pl.Pinned {
			fixed = append(fixed, item)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		p.log.InfoContext(ctx, "No adjustable labels, skipping layout", "pinned", len(fixed))
		return nil
	}

	result, err := p.placer.Place(ctx, items, fixed)
	if err != nil {
		return fmt.Errorf("failed to place labels: %w", err)
	}

	for i := range placements {
		if placements[i].Pinned {
			continue
		}
		final, ok := result.Positions[placements[i].Key]
		if !ok {
			return &models.LayoutError{Reason: fmt.Sprintf("no position returned for %q", placements[i].Key)}
		}
		placements[i].Final = final
	}

	report.Iterations = result.Iterations
	report.Converged = result.Converged
	if p.metrics != nil {
		p.metrics.LayoutSeconds.Observe(result.Duration.Seconds())
	}
	return nil
}

func (p *Pipeline) record(report *Report) {
	if p.metrics == nil {
		return
	}
	p.metrics.LabelsRendered.WithLabelValues("pinned").Add(float64(report.Pinned))
	p.metrics.LabelsRendered.WithLabelValues("laid_out").Add(float64(len(report.Rendered) - report.Pinned))
	p.metrics.Connectors.Add(float64(report.Connectors))
	p.metrics.MissingEntities.Add(float64(len(report.Missing)))
	p.metrics.LayoutIters.Set(float64(report.Iterations))
	if report.Converged {
		p.metrics.LayoutConverged.Set(1)
	} else {
		p.metrics.LayoutConverged.Set(0)
	}
}
