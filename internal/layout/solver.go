package layout

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Box is a text box in canvas units.
type Box struct {
	Center orb.Point
	Width  float64
	Height float64
}

// Bound returns the rectangle covered by the box.
func (b Box) Bound() orb.Bound {
	hw, hh := b.Width/2, b.Height/2
	return orb.Bound{
		Min: orb.Point{b.Center.X() - hw, b.Center.Y() - hh},
		Max: orb.Point{b.Center.X() + hw, b.Center.Y() + hh},
	}
}

// Obstacle is a fixed anchor point texts must not cover.
type Obstacle struct {
	Point orb.Point
	Owner int // Owner is the index of the text the anchor belongs to, or -1.
}

// Problem is the input of a Solver. Only Texts may move.
type Problem struct {
	Texts      []Box      // Texts are the movable boxes at their initial positions.
	Obstacles  []Obstacle // Obstacles are the anchors of every label on the canvas.
	Fixed      []Box      // Fixed are text boxes that stay where they are.
	Bounds     orb.Bound  // Bounds is the canvas extent boxes must stay inside.
	Iterations int        // Iterations is the iteration budget.
}

// Solution holds the final centre of every text box, index-aligned with Problem.Texts.
type Solution struct {
	Positions  []orb.Point
	Iterations int  // Iterations is the number of iterations run.
	Converged  bool // Converged is false when the budget ran out with overlaps left.
}

// Solver resolves overlaps between text boxes. Implementations must be deterministic
// for a given Problem.
type Solver interface {
	Solve(p Problem) (Solution, error)
}

// SolverType names a Solver implementation.
type SolverType string

const (
	// SolverForce is the iterative repulsion solver.
	SolverForce SolverType = "force"
	// SolverAnneal is the simulated annealing solver.
	SolverAnneal SolverType = "anneal"
)

// SolverConfig holds the settings for creating a Solver.
type SolverConfig struct {
	Type    SolverType // Type of solver to create
	Force   float64    // Share of the separating distance applied per iteration (force)
	MinStep float64    // Smallest displacement applied to an overlapping box (force)
	Padding float64    // Extra clearance added to every separation (force)
	Seed    int64      // Random seed (anneal)
}

// NewSolver creates a Solver from the configuration.
func NewSolver(cfg SolverConfig) (Solver, error) {
	switch cfg.Type {
	case SolverForce:
		return NewForceSolver(cfg.Force, cfg.MinStep, cfg.Padding), nil
	case SolverAnneal:
		return NewAnnealSolver(cfg.Seed), nil
	default:
		return nil, fmt.Errorf("unsupported solver type: %s", cfg.Type)
	}
}
