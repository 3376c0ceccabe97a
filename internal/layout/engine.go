// Package layout moves label text positions so that labels stop overlapping each
// other and the anchors of other labels. Anchors never move.
package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/paulmach/orb"
)

// minBoxSize keeps empty labels indexable.
const minBoxSize = 1e-6

// Measurer returns the extent of a label in canvas units.
type Measurer interface {
	Measure(label string) (width, height float64)
}

// MeasureFunc adapts a function to the Measurer interface.
type MeasureFunc func(label string) (float64, float64)

// Measure implements Measurer.
func (f MeasureFunc) Measure(label string) (float64, float64) {
	return f(label)
}

// Item is a label handed to the engine.
type Item struct {
	Key     string
	Label   string
	Initial orb.Point // Initial is the text position the label starts from.
	Anchor  orb.Point
}

// Result is the outcome of a layout run.
type Result struct {
	Positions  map[string]orb.Point // Positions maps every adjustable key to its final text position.
	Iterations int
	Converged  bool
	Duration   time.Duration
}

// Engine wraps a Solver with input validation and measuring.
type Engine struct {
	solver     Solver
	measurer   Measurer
	bounds     orb.Bound
	iterations int
	log        *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(solver Solver, measurer Measurer, bounds orb.Bound, iterations int, logger *slog.Logger) *Engine {
	return &Engine{
		solver:     solver,
		measurer:   measurer,
		bounds:     bounds,
		iterations: iterations,
		log:        logger,
	}
}

// Place computes final text positions for items. Fixed items keep their text
// position but their text boxes and anchors are avoided. Only items appear in
// the result.
func (e *Engine) Place(ctx context.Context, items, fixed []Item) (*Result, error) {
	if len(items) == 0 {
		return nil, &models.LayoutError{Reason: "no adjustable labels"}
	}
	if e.iterations <= 0 {
		return nil, &models.LayoutError{Reason: fmt.Sprintf("iteration budget must be positive, got %d", e.iterations)}
	}
	if e.bounds.Max.X() <= e.bounds.Min.X() || e.bounds.Max.Y() <= e.bounds.Min.Y() {
		return nil, &models.LayoutError{Reason: "canvas bounds are empty"}
	}

	seen := make(map[string]struct{}, len(items)+len(fixed))
	problem := Problem{
		Texts:      make([]Box, 0, len(items)),
		Obstacles:  make([]Obstacle, 0, len(items)+len(fixed)),
		Fixed:      make([]Box, 0, len(fixed)),
		Bounds:     e.bounds,
		Iterations: e.iterations,
	}

	for i, item := range items {
		box, err := e.box(item, seen)
		if err != nil {
			return nil, err
		}
		problem.Texts = append(problem.Texts, box)
		problem.Obstacles = append(problem.Obstacles, Obstacle{Point: item.Anchor, Owner: i})
	}
	for _, item := range fixed {
		box, err := e.box(item, seen)
		if err != nil {
			return nil, err
		}
		problem.Fixed = append(problem.Fixed, box)
		problem.Obstacles = append(problem.Obstacles, Obstacle{Point: item.Anchor, Owner: -1})
	}

	start := time.Now()
	solution, err := e.solver.Solve(problem)
	if err != nil {
		return nil, &models.LayoutError{Reason: "solver failed", Err: err}
	}
	if len(solution.Positions) != len(items) {
		return nil, &models.LayoutError{
			Reason: fmt.Sprintf("solver returned %d positions for %d labels", len(solution.Positions), len(items)),
		}
	}

	result := &Result{
		Positions:  make(map[string]orb.Point, len(items)),
		Iterations: solution.Iterations,
		Converged:  solution.Converged,
		Duration:   time.Since(start),
	}
	for i, item := range items {
		pos := solution.Positions[i]
		if !finitePoint(pos) {
			return nil, &models.LayoutError{Reason: fmt.Sprintf("solver produced a non-finite position for %q", item.Key)}
		}
		result.Positions[item.Key] = pos
	}

	if !result.Converged {
		e.log.WarnContext(ctx, "Layout did not converge within the iteration budget",
			"iterations", result.Iterations, "labels", len(items))
	}
	e.log.DebugContext(ctx, "Layout finished",
		"labels", len(items),
		"fixed", len(fixed),
		"iterations", result.Iterations,
		"converged", result.Converged,
		"duration", result.Duration,
	)

	return result, nil
}

func (e *Engine) box(item Item, seen map[string]struct{}) (Box, error) {
	if item.Key == "" {
		return Box{}, &models.LayoutError{Reason: "label without key"}
	}
	if _, ok := seen[item.Key]; ok {
		return Box{}, &models.LayoutError{Reason: fmt.Sprintf("duplicate label %q", item.Key)}
	}
	seen[item.Key] = struct{}{}

	if !finitePoint(item.Initial) || !finitePoint(item.Anchor) {
		return Box{}, &models.LayoutError{Reason: fmt.Sprintf("non-finite coordinates for %q", item.Key)}
	}

	w, h := e.measurer.Measure(item.Label)
	if !finite(w) || !finite(h) || w < 0 || h < 0 {
		return Box{}, &models.LayoutError{
			Reason: fmt.Sprintf("invalid extent for %q", item.Key),
			Err:    errors.New("width and height must be finite and non-negative"),
		}
	}
	return Box{Center: item.Initial, Width: max(w, minBoxSize), Height: max(h, minBoxSize)}, nil
}

func finitePoint(p orb.Point) bool {
	return finite(p.X()) && finite(p.Y())
}
