package layout

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	temperature    = 100.0
	overlapPenalty = 1e6
	obstacleSize   = 0.2
	// stepBoxes is the first proposal spread in box sizes; it cools with the temperature.
	stepBoxes = 3.0
	// stallSweeps ends a run once the best layout is overlap free and has not
	// improved for this many sweeps.
	stallSweeps = 50
)

// AnnealSolver moves boxes with simulated annealing so that none overlap, they
// stay close to where they started and they do not leave the canvas. One
// iteration is a sweep proposing a random move and a pull back towards the
// start for every box. The lowest energy layout seen is returned.
type AnnealSolver struct {
	seed int64
}

// NewAnnealSolver creates an AnnealSolver. Runs with the same seed produce the
// same result.
func NewAnnealSolver(seed int64) *AnnealSolver {
	return &AnnealSolver{seed: seed}
}

// annealState holds the geometry an AnnealSolver run works on.
type annealState struct {
	start, half       []r2.Vec
	others, otherHalf []r2.Vec
	owners            []int
	bounds            r2.Box
}

// energy is the local energy of box i at centre c: its distance from where it
// started plus a heavy penalty for every overlapping area.
func (st *annealState) energy(pos []r2.Vec, i int, c r2.Vec) (float64, float64) {
	if !st.inside(c, st.half[i]) {
		return math.Inf(1), math.Inf(1)
	}
	area := 0.0
	for j := range pos {
		if j != i {
			area += overlapArea(c, st.half[i], pos[j], st.half[j])
		}
	}
	for k := range st.others {
		if st.owners[k] == i {
			continue
		}
		area += overlapArea(c, st.half[i], st.others[k], st.otherHalf[k])
	}
	return r2.Norm(r2.Sub(c, st.start[i])) + overlapPenalty*area, area
}

func (st *annealState) inside(c, half r2.Vec) bool {
	return c.X-half.X >= st.bounds.Min.X && c.X+half.X <= st.bounds.Max.X &&
		c.Y-half.Y >= st.bounds.Min.Y && c.Y+half.Y <= st.bounds.Max.Y
}

// Solve implements Solver.
func (s *AnnealSolver) Solve(p Problem) (Solution, error) {
	rng := rand.New(rand.NewSource(s.seed))

	n := len(p.Texts)
	st := &annealState{
		start:  make([]r2.Vec, n),
		half:   make([]r2.Vec, n),
		bounds: r2.Box{Min: vec(p.Bounds.Min.X(), p.Bounds.Min.Y()), Max: vec(p.Bounds.Max.X(), p.Bounds.Max.Y())},
	}
	pos := make([]r2.Vec, n)
	for i, b := range p.Texts {
		st.half[i] = vec(b.Width/2, b.Height/2)
		// Boxes that start outside the canvas are pulled in before annealing.
		st.start[i] = clamp(vec(b.Center.X(), b.Center.Y()), st.half[i], st.bounds)
		pos[i] = st.start[i]
	}
	for _, b := range p.Fixed {
		st.others = append(st.others, vec(b.Center.X(), b.Center.Y()))
		st.otherHalf = append(st.otherHalf, vec(b.Width/2, b.Height/2))
		st.owners = append(st.owners, -1)
	}
	for _, o := range p.Obstacles {
		st.others = append(st.others, vec(o.Point.X(), o.Point.Y()))
		st.otherHalf = append(st.otherHalf, vec(obstacleSize/2, obstacleSize/2))
		st.owners = append(st.owners, o.Owner)
	}

	energies := make([]float64, n)
	areas := make([]float64, n)
	current := 0.0
	for i := range pos {
		energies[i], areas[i] = st.energy(pos, i, pos[i])
		current += energies[i]
	}
	best := append([]r2.Vec(nil), pos...)
	bestE, bestClear := current, overlapFree(areas)

	// try moves box i to candidate when the Metropolis rule at temperature t accepts it.
	try := func(i int, candidate r2.Vec, t float64) {
		e, _ := st.energy(pos, i, candidate)
		if math.IsInf(e, 1) {
			return
		}
		delta := e - energies[i]
		if delta >= 0 && (t <= 0 || rng.Float64() >= math.Exp(-delta/t)) {
			return
		}
		previous := pos[i]
		pos[i] = candidate
		// Overlap is shared, so neighbours before and after the move are refreshed too.
		for j := range pos {
			if j != i && overlapArea(previous, st.half[i], pos[j], st.half[j]) == 0 &&
				overlapArea(candidate, st.half[i], pos[j], st.half[j]) == 0 {
				continue
			}
			current -= energies[j]
			energies[j], areas[j] = st.energy(pos, j, pos[j])
			current += energies[j]
		}
	}

	it, sinceBest := 0, 0
	for ; it < p.Iterations; it++ {
		// Zero energy means every box sits at its start without overlap.
		if bestE == 0 || (bestClear && sinceBest >= stallSweeps) {
			break
		}

		T := temperature / float64(it+1)
		cool := T / temperature
		improved := false
		for i := range pos {
			size := 2 * math.Max(st.half[i].X, st.half[i].Y)
			spread := cool * stepBoxes * size
			try(i, r2.Add(pos[i], vec(rng.NormFloat64()*spread, rng.NormFloat64()*spread)), cool*size)
			try(i, r2.Add(pos[i], r2.Scale(0.5, r2.Sub(st.start[i], pos[i]))), 0)

			if current < bestE {
				copy(best, pos)
				bestE, bestClear = current, overlapFree(areas)
				improved = true
			}
		}
		if improved {
			sinceBest = 0
		} else {
			sinceBest++
		}
	}

	return Solution{Positions: toPoints(best), Iterations: it, Converged: bestClear}, nil
}

// overlapFree reports whether no box overlaps anything.
func overlapFree(areas []float64) bool {
	for _, a := range areas {
		if a > 0 {
			return false
		}
	}
	return true
}
