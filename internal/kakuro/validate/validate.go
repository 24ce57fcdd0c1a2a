// Package validate evaluates sum and uniqueness constraints over a
// Kakuro grid, in both play-mode (an in-progress assignment) and
// edit-mode (a user-authored clue layout with no assignments yet).
package validate

import (
	"errors"

	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/combo"
	"sudoku-api/internal/kakuro/grid"
)

// Outcome classifies the result of a validation pass.
type Outcome int

const (
	Ok Outcome = iota
	DuplicateOnly
	WrongSumOnly
	Mixed
	BlockedOnly
	BadValueOnly
	MixedEdit
)

// ErrNotRevealable is returned by Reveal when the grid has no known
// solution to copy from.
var ErrNotRevealable = errors.New("validate: grid has no solution to reveal")

// Play validates an in-progress assignment. It stamps Err on Empty cells
// with a duplicate in their run, and ErrRight/ErrDown on Clues whose run
// sum is violated, then clears and re-stamps on every call. When strict
// is true, a run whose already-assigned partial sum meets or exceeds the
// clue's target — even with unassigned cells remaining — is also flagged
// as a sum violation (the solver uses this to prune infeasible branches
// early; the UI normally calls Play with strict=false).
func Play(g *grid.Grid, strict bool) Outcome {
	clearErrors(g)

	duplicate := false
	wrongSum := false

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			if c.Kind == cell.Clue {
				if checkRun(g, x, y, true, strict) {
					wrongSum = true
				}
				if checkRun(g, x, y, false, strict) {
					wrongSum = true
				}
			}
		}
	}

	if markDuplicates(g) {
		duplicate = true
	}

	switch {
	case duplicate && wrongSum:
		return Mixed
	case duplicate:
		return DuplicateOnly
	case wrongSum:
		return WrongSumOnly
	default:
		return Ok
	}
}

// checkRun inspects the run owned by the clue at (x,y) in the given
// direction (right when right is true, else down) and stamps the clue's
// error flag when the sum is violated. It reports whether a violation
// was stamped.
func checkRun(g *grid.Grid, x, y int, right, strict bool) bool {
	var coords []grid.Coordinate
	if right {
		coords = g.RunRight(x, y)
	} else {
		coords = g.RunDown(x, y)
	}
	if len(coords) == 0 {
		return false
	}

	c := g.Get(x, y)
	target := c.SumRight
	if !right {
		target = c.SumDown
	}

	sum := 0
	allAssigned := true
	for _, co := range coords {
		e := g.Get(co.X, co.Y)
		if e.Assigned == -1 {
			allAssigned = false
			continue
		}
		sum += e.Assigned
	}

	violated := false
	if allAssigned && sum != target {
		violated = true
	} else if strict && !allAssigned && sum >= target {
		violated = true
	}

	if violated {
		c = g.Get(x, y)
		if right {
			c.ErrRight = true
		} else {
			c.ErrDown = true
		}
		g.Set(x, y, c)
	}
	return violated
}

// markDuplicates stamps Err on every Empty cell whose Assigned digit
// repeats elsewhere in its horizontal or vertical run. It reports
// whether any duplicate was found.
func markDuplicates(g *grid.Grid) bool {
	found := false
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		if e.Assigned == -1 {
			continue
		}
		if runHasDuplicate(g, co, true) || runHasDuplicate(g, co, false) {
			e.Err = true
			g.Set(co.X, co.Y, e)
			found = true
		}
	}
	return found
}

// runHasDuplicate reports whether the run containing co (horizontal if
// right, else vertical) has another cell sharing co's Assigned digit.
func runHasDuplicate(g *grid.Grid, co grid.Coordinate, right bool) bool {
	anchor, ok := owningClue(g, co, right)
	if !ok {
		return false
	}
	var run []grid.Coordinate
	if right {
		run = g.RunRight(anchor.X, anchor.Y)
	} else {
		run = g.RunDown(anchor.X, anchor.Y)
	}
	digit := g.Get(co.X, co.Y).Assigned
	count := 0
	for _, r := range run {
		if g.Get(r.X, r.Y).Assigned == digit {
			count++
		}
	}
	return count > 1
}

func owningClue(g *grid.Grid, co grid.Coordinate, right bool) (grid.Coordinate, bool) {
	if right {
		return g.OwningClueRight(co.X, co.Y)
	}
	return g.OwningClueDown(co.X, co.Y)
}

func clearErrors(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			switch c.Kind {
			case cell.Clue:
				c.ErrRight = false
				c.ErrDown = false
				g.Set(x, y, c)
			case cell.Empty:
				c.Err = false
				g.Set(x, y, c)
			}
		}
	}
}

// Edit validates the structural consistency of a user-authored clue
// layout: every clue's stated sums must be achievable for their run
// lengths, and no clue may be blocked.
func Edit(g *grid.Grid) Outcome {
	clearErrors(g)

	blocked := false
	badValue := false

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			if c.Kind != cell.Clue {
				continue
			}
			if g.IsBlocked(x, y) {
				blocked = true
				continue
			}
			if badSum(g, x, y, true) {
				c = g.Get(x, y)
				c.ErrRight = true
				g.Set(x, y, c)
				badValue = true
			}
			if badSum(g, x, y, false) {
				c = g.Get(x, y)
				c.ErrDown = true
				g.Set(x, y, c)
				badValue = true
			}
		}
	}

	switch {
	case blocked && badValue:
		return MixedEdit
	case blocked:
		return BlockedOnly
	case badValue:
		return BadValueOnly
	default:
		return Ok
	}
}

func badSum(g *grid.Grid, x, y int, right bool) bool {
	c := g.Get(x, y)
	sum := c.SumRight
	length := g.RunLengthRight(x, y)
	if !right {
		sum = c.SumDown
		length = g.RunLengthDown(x, y)
	}
	if length == 0 {
		return sum != 0
	}
	return sum < combo.MinSum(length) || sum > combo.MaxSum(length)
}

// IsWon reports whether g has Ok validation and every Empty cell is
// assigned.
func IsWon(g *grid.Grid) bool {
	if Play(g, false) != Ok {
		return false
	}
	for _, co := range g.EmptyCells() {
		if g.Get(co.X, co.Y).Assigned == -1 {
			return false
		}
	}
	return true
}

// Reset clears every Empty cell's Assigned back to -1, restores its full
// domain, and clears all error flags.
func Reset(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			switch c.Kind {
			case cell.Empty:
				c.Assigned = -1
				c.Domain = cell.AllCandidates()
				c.Err = false
				g.Set(x, y, c)
			case cell.Clue:
				c.ErrRight = false
				c.ErrDown = false
				g.Set(x, y, c)
			}
		}
	}
}

// Reveal copies each Empty cell's Solution into Assigned and clears
// errors. It returns ErrNotRevealable if g has no known solution.
func Reveal(g *grid.Grid) error {
	if !g.HasSolution {
		return ErrNotRevealable
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			if c.Kind != cell.Empty {
				continue
			}
			c.Assigned = c.Solution
			c.Err = false
			g.Set(x, y, c)
		}
	}
	clearErrors(g)
	return nil
}
