// Package generate produces random solvable Kakuro grids at a chosen
// difficulty, following the fixed seed -> scatter -> de-block -> fill ->
// re-block -> sums phase order.
package generate

import (
	"math/rand"

	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/internal/kakuro/validate"
)

// Difficulty selects the target clue density of a generated grid.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// Config holds the clue-count target per difficulty. DefaultConfig
// mirrors the typical mapping of spec.md §4.D.
type Config struct {
	TargetClues map[Difficulty]int
}

// DefaultConfig returns the reference clue-count targets.
func DefaultConfig() Config {
	return Config{TargetClues: map[Difficulty]int{
		Easy:   40,
		Medium: 30,
		Hard:   20,
		Expert: 10,
	}}
}

// Generate populates g in place: structural seeding, clue scattering,
// de-blocking, value filling, a second de-blocking pass, clue-sum
// derivation, and finally sets HasSolution. It self-checks its own
// output with a single validate.Edit call.
func Generate(g *grid.Grid, difficulty Difficulty, cfg Config, rng *rand.Rand) {
	seedStructure(g, rng)
	scatterClues(g, cfg.TargetClues[difficulty], rng)
	deblockClues(g)
	fillValues(g, rng)
	deblockClues(g)
	deriveSums(g)
	g.HasSolution = true

	validate.Edit(g)
}

// seedStructure plants the top-row and left-column clue lattice: for
// each column, a clue at a random offset in {0,1} with Blocks above it;
// symmetrically for each row's leftmost column.
func seedStructure(g *grid.Grid, rng *rand.Rand) {
	for x := 0; x < g.Width; x++ {
		offset := rng.Intn(2)
		for y := 0; y < offset; y++ {
			g.Set(x, y, cell.NewBlock())
		}
		g.Set(x, offset, cell.NewClue())
	}
	for y := 0; y < g.Height; y++ {
		offset := rng.Intn(2)
		for x := 0; x < offset; x++ {
			g.Set(x, y, cell.NewBlock())
		}
		if g.Get(offset, y).Kind != cell.Clue {
			g.Set(offset, y, cell.NewClue())
		}
	}
}

// scatterClues drops n additional clues at uniformly random interior
// coordinates, overwriting whatever occupies them.
func scatterClues(g *grid.Grid, n int, rng *rand.Rand) {
	if g.Width <= 1 || g.Height <= 1 {
		return
	}
	for i := 0; i < n; i++ {
		x := 1 + rng.Intn(g.Width-1)
		y := 1 + rng.Intn(g.Height-1)
		g.Set(x, y, cell.NewClue())
	}
}

// deblockClues demotes any now-blocked clue to a Block.
func deblockClues(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Get(x, y).Kind == cell.Clue && g.IsBlocked(x, y) {
				g.Set(x, y, cell.NewBlock())
			}
		}
	}
}

// fillValues assigns a Solution digit to every remaining Empty cell,
// choosing a digit absent from its current horizontal and vertical run.
// A cell with no available digit is promoted to a Clue instead.
func fillValues(g *grid.Grid, rng *rand.Rand) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Get(x, y).Kind != cell.Empty {
				continue
			}
			used := usedDigits(g, x, y)
			digit, ok := pickUnused(used, rng)
			if !ok {
				g.Set(x, y, cell.NewClue())
				continue
			}
			c := g.Get(x, y)
			c.Solution = digit
			g.Set(x, y, c)
		}
	}
}

func usedDigits(g *grid.Grid, x, y int) cell.Candidates {
	var used cell.Candidates
	if anchor, ok := g.OwningClueRight(x, y); ok {
		for _, co := range g.RunRight(anchor.X, anchor.Y) {
			if co == (grid.Coordinate{X: x, Y: y}) {
				continue
			}
			if d := g.Get(co.X, co.Y).Solution; d != -1 {
				used = used.Set(d)
			}
		}
	}
	if anchor, ok := g.OwningClueDown(x, y); ok {
		for _, co := range g.RunDown(anchor.X, anchor.Y) {
			if co == (grid.Coordinate{X: x, Y: y}) {
				continue
			}
			if d := g.Get(co.X, co.Y).Solution; d != -1 {
				used = used.Set(d)
			}
		}
	}
	return used
}

func pickUnused(used cell.Candidates, rng *rand.Rand) (int, bool) {
	available := cell.AllCandidates().Subtract(used).ToSlice()
	if len(available) == 0 {
		return 0, false
	}
	return available[rng.Intn(len(available))], true
}

// deriveSums sums each remaining Clue's right-run and down-run solutions
// into SumRight/SumDown.
func deriveSums(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Get(x, y).Kind != cell.Clue {
				continue
			}
			c := g.Get(x, y)
			c.SumRight = sumRun(g, g.RunRight(x, y))
			c.SumDown = sumRun(g, g.RunDown(x, y))
			g.Set(x, y, c)
		}
	}
}

func sumRun(g *grid.Grid, run []grid.Coordinate) int {
	sum := 0
	for _, co := range run {
		sum += g.Get(co.X, co.Y).Solution
	}
	return sum
}
