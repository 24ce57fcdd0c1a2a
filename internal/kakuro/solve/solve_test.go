package solve

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/generate"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/internal/kakuro/validate"
)

// buildTwoByTwo builds the 3x3 puzzle of spec scenario S2: a clue at
// (0,0) with sum_right=3 over a 2-cell right run and sum_down=3 over a
// 2-cell down run, sharing the grid's top-left corner.
func buildTwoByTwo() *grid.Grid {
	g := grid.New(3, 3)
	g.Set(0, 0, cell.Cell{Kind: cell.Clue, SumRight: 3, SumDown: 3})
	return g
}

func TestSolveFastSolvesSharedCornerPuzzle(t *testing.T) {
	g := buildTwoByTwo()
	s := &Solver{}
	rng := rand.New(rand.NewSource(1))
	err := s.Solve(context.Background(), g, Fast, rng, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 2}, []int{g.Get(1, 0).Assigned, g.Get(2, 0).Assigned})
	assert.ElementsMatch(t, []int{1, 2}, []int{g.Get(0, 1).Assigned, g.Get(0, 2).Assigned})
}

func TestSolveDeterministicWithFixedSeed(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := grid.New(10, 10)
	generate.Generate(g, generate.Medium, generate.DefaultConfig(), rng)
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		e.Solution = -1
		g.Set(co.X, co.Y, e)
	}
	g.HasSolution = false

	solveWithSeed := func(seed int64) *grid.Grid {
		clone := g.Clone()
		s := &Solver{}
		r := rand.New(rand.NewSource(seed))
		_ = s.Solve(context.Background(), clone, Fast, r, nil)
		return clone
	}

	a := solveWithSeed(7)
	b := solveWithSeed(7)
	for _, co := range a.EmptyCells() {
		assert.Equal(t, a.Get(co.X, co.Y).Assigned, b.Get(co.X, co.Y).Assigned)
	}
}

func TestSolveNoSolutionWhenInfeasible(t *testing.T) {
	// length-1 run with an unachievable sum.
	g := grid.New(2, 1)
	g.Set(0, 0, cell.Cell{Kind: cell.Clue, SumRight: 17})
	s := &Solver{}
	rng := rand.New(rand.NewSource(1))
	err := s.Solve(context.Background(), g, Slow, rng, nil)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestSolveAbandonedOnCancel(t *testing.T) {
	g := grid.New(10, 10)
	rng := rand.New(rand.NewSource(9))
	generate.Generate(g, generate.Easy, generate.DefaultConfig(), rng)
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		e.Solution = -1
		g.Set(co.X, co.Y, e)
	}
	g.HasSolution = false

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Solver{}
	err := s.Solve(ctx, g, Slow, rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, ErrAbandoned)
}

func TestConfirmSolutionIdempotentWithReset(t *testing.T) {
	g := buildTwoByTwo()
	s := &Solver{}
	require.NoError(t, s.Solve(context.Background(), g, Medium, rand.New(rand.NewSource(3)), nil))

	ConfirmSolution(g)
	first := snapshotSolutions(g)

	validate.Reset(g)
	require.NoError(t, s.Solve(context.Background(), g, Medium, rand.New(rand.NewSource(3)), nil))
	ConfirmSolution(g)
	second := snapshotSolutions(g)

	assert.Equal(t, first, second)
}

func snapshotSolutions(g *grid.Grid) map[grid.Coordinate]int {
	out := make(map[grid.Coordinate]int)
	for _, co := range g.EmptyCells() {
		out[co] = g.Get(co.X, co.Y).Solution
	}
	return out
}

func TestSolveProgressCallback(t *testing.T) {
	g := buildTwoByTwo()
	s := &Solver{}
	ticks := 0
	err := s.Solve(context.Background(), g, Slow, rand.New(rand.NewSource(5)), func(n int) { ticks = n })
	require.NoError(t, err)
	assert.Greater(t, ticks, 0)
}

func TestSolveWithinTimeout(t *testing.T) {
	g := grid.New(10, 10)
	rng := rand.New(rand.NewSource(11))
	generate.Generate(g, generate.Hard, generate.DefaultConfig(), rng)
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		e.Solution = -1
		g.Set(co.X, co.Y, e)
	}
	g.HasSolution = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := &Solver{}
	err := s.Solve(ctx, g, Fast, rand.New(rand.NewSource(2)), nil)
	assert.NoError(t, err)
}
