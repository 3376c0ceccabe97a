package layout

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	defaultForce   = 0.5
	defaultPadding = 0.05
)

// ForceSolver pushes overlapping boxes apart along the line between their
// centres until nothing overlaps or the iteration budget is spent.
type ForceSolver struct {
	force   float64
	minStep float64
	padding float64
}

// NewForceSolver creates a ForceSolver. A non-positive force or negative padding
// falls back to the defaults.
func NewForceSolver(force, minStep, padding float64) *ForceSolver {
	if force <= 0 || force > 1 {
		force = defaultForce
	}
	if padding < 0 {
		padding = defaultPadding
	}
	return &ForceSolver{force: force, minStep: math.Max(minStep, 0), padding: padding}
}

func (s *ForceSolver) step(dist float64) float64 {
	return math.Max((dist+s.padding)*s.force, s.minStep)
}

// Solve implements Solver.
func (s *ForceSolver) Solve(p Problem) (Solution, error) {
	n := len(p.Texts)
	pos := make([]r2.Vec, n)
	half := make([]r2.Vec, n)
	for i, b := range p.Texts {
		pos[i] = vec(b.Center.X(), b.Center.Y())
		half[i] = vec(b.Width/2, b.Height/2)
	}
	fixedPos := make([]r2.Vec, len(p.Fixed))
	fixedHalf := make([]r2.Vec, len(p.Fixed))
	for i, b := range p.Fixed {
		fixedPos[i] = vec(b.Center.X(), b.Center.Y())
		fixedHalf[i] = vec(b.Width/2, b.Height/2)
	}
	bounds := r2.Box{
		Min: vec(p.Bounds.Min.X(), p.Bounds.Min.Y()),
		Max: vec(p.Bounds.Max.X(), p.Bounds.Max.Y()),
	}

	firstFixed := n
	firstObstacle := n + len(p.Fixed)

	for it := 0; it < p.Iterations; it++ {
		index := newBoxIndex()
		for i := range pos {
			if err := index.insertBox(i, pos[i], half[i]); err != nil {
				return Solution{}, fmt.Errorf("failed to index text %d: %w", i, err)
			}
		}
		for i := range fixedPos {
			if err := index.insertBox(firstFixed+i, fixedPos[i], fixedHalf[i]); err != nil {
				return Solution{}, fmt.Errorf("failed to index fixed text %d: %w", i, err)
			}
		}
		for i, o := range p.Obstacles {
			index.insertPoint(firstObstacle+i, vec(o.Point.X(), o.Point.Y()))
		}

		deltas := make([]r2.Vec, n)
		moved := false
		for i := range pos {
			candidates, err := index.search(pos[i], half[i])
			if err != nil {
				return Solution{}, fmt.Errorf("failed to search around text %d: %w", i, err)
			}
			for _, id := range candidates {
				switch {
				case id < firstFixed:
					// Each pair of texts is handled once, from its lower index.
					if id <= i || !overlaps(pos[i], half[i], pos[id], half[id]) {
						continue
					}
					dir, dist := separation(r2.Sub(pos[i], pos[id]), r2.Add(half[i], half[id]), i*n+id)
					step := s.step(dist / 2)
					deltas[i] = r2.Add(deltas[i], r2.Scale(step, dir))
					deltas[id] = r2.Sub(deltas[id], r2.Scale(step, dir))
					moved = true
				case id < firstObstacle:
					k := id - firstFixed
					if !overlaps(pos[i], half[i], fixedPos[k], fixedHalf[k]) {
						continue
					}
					dir, dist := separation(r2.Sub(pos[i], fixedPos[k]), r2.Add(half[i], fixedHalf[k]), i*n+id)
					deltas[i] = r2.Add(deltas[i], r2.Scale(s.step(dist), dir))
					moved = true
				default:
					o := p.Obstacles[id-firstObstacle]
					if o.Owner == i {
						continue
					}
					pt := vec(o.Point.X(), o.Point.Y())
					if !overlaps(pos[i], half[i], pt, r2.Vec{}) {
						continue
					}
					dir, dist := separation(r2.Sub(pos[i], pt), half[i], i*n+id)
					deltas[i] = r2.Add(deltas[i], r2.Scale(s.step(dist), dir))
					moved = true
				}
			}
		}

		if !moved {
			return Solution{Positions: toPoints(pos), Iterations: it, Converged: true}, nil
		}
		for i := range pos {
			pos[i] = clamp(r2.Add(pos[i], deltas[i]), half[i], bounds)
		}
	}

	return Solution{Positions: toPoints(pos), Iterations: p.Iterations, Converged: !anyOverlap(p, pos, half)}, nil
}

// anyOverlap reports whether a text still overlaps another text, a fixed box or
// a foreign anchor.
func anyOverlap(p Problem, pos, half []r2.Vec) bool {
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			if overlaps(pos[i], half[i], pos[j], half[j]) {
				return true
			}
		}
		for _, b := range p.Fixed {
			if overlaps(pos[i], half[i], vec(b.Center.X(), b.Center.Y()), vec(b.Width/2, b.Height/2)) {
				return true
			}
		}
		for _, o := range p.Obstacles {
			if o.Owner != i && overlaps(pos[i], half[i], vec(o.Point.X(), o.Point.Y()), r2.Vec{}) {
				return true
			}
		}
	}
	return false
}

func toPoints(pos []r2.Vec) []orb.Point {
	points := make([]orb.Point, len(pos))
	for i, v := range pos {
		points[i] = orb.Point{v.X, v.Y}
	}
	return points
}
