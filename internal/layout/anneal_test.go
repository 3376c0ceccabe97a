package layout_test

import (
	"fmt"
	"testing"

	"github.com/UnknownOlympus/labelmap/internal/layout"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnealSolver_KeepsDisplacementSmall(t *testing.T) {
	start := []orb.Point{{1.5, 42.5}, {2.0, 42.5}}
	problem := layout.Problem{
		Texts: []layout.Box{
			{Center: start[0], Width: 1, Height: 0.4},
			{Center: start[1], Width: 1, Height: 0.4},
		},
		Bounds:     worldBounds,
		Iterations: 500,
	}

	for _, seed := range []int64{1, 2, 3, 4, 5} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			solution, err := layout.NewAnnealSolver(seed).Solve(problem)

			require.NoError(t, err)
			require.Len(t, solution.Positions, 2)
			assert.True(t, solution.Converged)
			assert.False(t, strictOverlap(box(solution.Positions[0]), box(solution.Positions[1])))
			for i, pos := range solution.Positions {
				// Two box widths is far more than separating the pair needs.
				assert.LessOrEqual(t, planar.Distance(pos, start[i]), 2.0, "label %d", i)
			}
		})
	}
}

func TestAnnealSolver_NothingToDo(t *testing.T) {
	problem := layout.Problem{
		Texts: []layout.Box{
			{Center: orb.Point{-60, 10}, Width: 1, Height: 0.4},
			{Center: orb.Point{60, 10}, Width: 1, Height: 0.4},
		},
		Bounds:     worldBounds,
		Iterations: 500,
	}

	solution, err := layout.NewAnnealSolver(1).Solve(problem)

	require.NoError(t, err)
	assert.Equal(t, []orb.Point{{-60, 10}, {60, 10}}, solution.Positions)
	assert.Equal(t, 0, solution.Iterations)
	assert.True(t, solution.Converged)
}

func TestAnnealSolver_StopsWithinBudget(t *testing.T) {
	problem := layout.Problem{
		Texts: []layout.Box{
			{Center: orb.Point{0, 0}, Width: 1, Height: 0.4},
			{Center: orb.Point{0.1, 0}, Width: 1, Height: 0.4},
			{Center: orb.Point{0.2, 0.1}, Width: 1, Height: 0.4},
		},
		Bounds:     worldBounds,
		Iterations: 20,
	}

	solution, err := layout.NewAnnealSolver(1).Solve(problem)

	require.NoError(t, err)
	assert.LessOrEqual(t, solution.Iterations, 20)
	assert.Len(t, solution.Positions, 3)
}
