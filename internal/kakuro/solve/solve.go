// Package solve implements the Kakuro CSP engine: sum decomposition,
// domain intersection, MRV+degree variable ordering, forward checking,
// arc consistency, and chronological backtracking.
package solve

import (
	"context"
	"errors"
	"math/rand"

	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/combo"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/internal/kakuro/validate"
)

// Strategy selects how much constraint propagation the search performs
// per step.
type Strategy int

const (
	// Slow performs row-major backtracking with no heuristic ordering.
	Slow Strategy = iota
	// Medium adds MRV+degree variable ordering, no propagation.
	Medium
	// Fast adds forward checking and arc-consistency propagation on top
	// of MRV+degree ordering.
	Fast
)

// ErrNoSolution is returned when the grid's constraints admit no
// satisfying assignment.
var ErrNoSolution = errors.New("solve: no solution exists for this grid")

// ErrAbandoned is returned when the caller's context is cancelled before
// a solution (or exhaustion) is reached.
var ErrAbandoned = errors.New("solve: solve was abandoned before completion")

// Solver runs the five-phase Kakuro solve: structural fix-up, sum
// decomposition, domain intersection, feasibility, and search.
type Solver struct{}

// Solve mutates g in place, assigning every Empty cell's Assigned field
// on success. progress, if non-nil, is invoked with an opaque tick
// counter at every recursion entry.
func (s *Solver) Solve(ctx context.Context, g *grid.Grid, strategy Strategy, rng *rand.Rand, progress func(ticks int)) error {
	structuralFixup(g)
	decomposeCombos(g)
	intersectDomains(g)
	computeDegrees(g)

	if err := feasibilityCheck(g); err != nil {
		return err
	}

	ticks := 0
	solved, err := search(ctx, g, strategy, rng, progress, &ticks)
	if err != nil {
		return err
	}
	if !solved {
		return ErrNoSolution
	}
	return nil
}

// ConfirmSolution moves every Empty cell's Assigned value into Solution
// and clears Assigned, turning a solved-but-unset grid into a fresh
// playable puzzle.
func ConfirmSolution(g *grid.Grid) {
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		e.Solution = e.Assigned
		e.Assigned = -1
		g.Set(co.X, co.Y, e)
	}
	g.HasSolution = true
}

// structuralFixup converts every Empty cell unreachable from any clue
// into a Block: such a cell can never be constrained.
func structuralFixup(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Get(x, y).Kind != cell.Empty {
				continue
			}
			_, hasLeft := g.OwningClueRight(x, y)
			_, hasUp := g.OwningClueDown(x, y)
			if !hasLeft && !hasUp {
				g.Set(x, y, cell.NewBlock())
			}
		}
	}
}

// decomposeCombos enumerates each clue's sum-decomposition combos for
// every direction with a nonzero stated sum.
func decomposeCombos(g *grid.Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			if c.Kind != cell.Clue {
				continue
			}
			if c.SumRight != 0 {
				c.CombosRight = combo.Decompose(c.SumRight, g.RunLengthRight(x, y))
			}
			if c.SumDown != 0 {
				c.CombosDown = combo.Decompose(c.SumDown, g.RunLengthDown(x, y))
			}
			g.Set(x, y, c)
		}
	}
}

// intersectDomains sets each Empty cell's domain to the intersection of
// the full 1-9 range with the surviving combo digits of its owning
// clues.
func intersectDomains(g *grid.Grid) {
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		domain := cell.AllCandidates()
		if anchor, ok := g.OwningClueRight(co.X, co.Y); ok {
			domain = domain.Intersect(g.Get(anchor.X, anchor.Y).CombosRight.Digits())
		}
		if anchor, ok := g.OwningClueDown(co.X, co.Y); ok {
			domain = domain.Intersect(g.Get(anchor.X, anchor.Y).CombosDown.Digits())
		}
		e.Domain = domain
		g.Set(co.X, co.Y, e)
	}
}

// computeDegrees sets each Empty cell's Degree to the count of other
// Empty cells sharing its horizontal or vertical run.
func computeDegrees(g *grid.Grid) {
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		degree := 0
		if anchor, ok := g.OwningClueRight(co.X, co.Y); ok {
			degree += g.RunLengthRight(anchor.X, anchor.Y) - 1
		}
		if anchor, ok := g.OwningClueDown(co.X, co.Y); ok {
			degree += g.RunLengthDown(anchor.X, anchor.Y) - 1
		}
		e.Degree = degree
		g.Set(co.X, co.Y, e)
	}
}

// feasibilityCheck reports ErrNoSolution if any Empty cell has an empty
// domain, or any nonzero-sum clue has no surviving combos.
func feasibilityCheck(g *grid.Grid) error {
	for _, co := range g.EmptyCells() {
		if g.Get(co.X, co.Y).Domain.IsEmpty() {
			return ErrNoSolution
		}
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			if c.Kind != cell.Clue {
				continue
			}
			if c.SumRight != 0 && len(c.CombosRight) == 0 {
				return ErrNoSolution
			}
			if c.SumDown != 0 && len(c.CombosDown) == 0 {
				return ErrNoSolution
			}
		}
	}
	return nil
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// search drives the backtracking recursion per the chosen strategy.
func search(ctx context.Context, g *grid.Grid, strategy Strategy, rng *rand.Rand, progress func(int), ticks *int) (bool, error) {
	if cancelled(ctx) {
		return false, ErrAbandoned
	}
	*ticks++
	if progress != nil {
		progress(*ticks)
	}

	co, ok := nextCoordinate(g, strategy)
	if !ok {
		return true, nil
	}

	values := g.Get(co.X, co.Y).Domain.ToSlice()
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	for _, v := range values {
		if cancelled(ctx) {
			return false, ErrAbandoned
		}

		if strategy == Fast {
			snapshot := g.Clone()
			assign(g, co, v)
			if propagateFast(g, co) {
				solved, err := search(ctx, g, strategy, rng, progress, ticks)
				if err != nil {
					return false, err
				}
				if solved {
					return true, nil
				}
			}
			g.Restore(snapshot)
			continue
		}

		assign(g, co, v)
		if validate.Play(g, true) == validate.Ok {
			solved, err := search(ctx, g, strategy, rng, progress, ticks)
			if err != nil {
				return false, err
			}
			if solved {
				return true, nil
			}
		}
		unassign(g, co)
	}

	return false, nil
}

func assign(g *grid.Grid, co grid.Coordinate, v int) {
	e := g.Get(co.X, co.Y)
	e.Assigned = v
	g.Set(co.X, co.Y, e)
}

func unassign(g *grid.Grid, co grid.Coordinate) {
	e := g.Get(co.X, co.Y)
	e.Assigned = -1
	g.Set(co.X, co.Y, e)
}

// nextCoordinate picks the next unassigned Empty cell. Slow walks a
// fixed row-major order; Medium and Fast apply MRV, breaking ties by
// highest degree, then by row-major order.
func nextCoordinate(g *grid.Grid, strategy Strategy) (grid.Coordinate, bool) {
	if strategy == Slow {
		for _, co := range g.EmptyCells() {
			if g.Get(co.X, co.Y).Assigned == -1 {
				return co, true
			}
		}
		return grid.Coordinate{}, false
	}

	var best grid.Coordinate
	found := false
	bestSize := 10
	bestDegree := -1
	for _, co := range g.EmptyCells() {
		e := g.Get(co.X, co.Y)
		if e.Assigned != -1 {
			continue
		}
		size := e.Domain.Count()
		if !found || size < bestSize || (size == bestSize && e.Degree > bestDegree) {
			best, found, bestSize, bestDegree = co, true, size, e.Degree
		}
	}
	return best, found
}

// propagateFast runs forward checking and arc-consistency propagation
// after assigning start's cell, returning false if any domain or combo
// list becomes empty as a result.
func propagateFast(g *grid.Grid, start grid.Coordinate) bool {
	queue := []grid.Coordinate{start}
	for len(queue) > 0 {
		co := queue[0]
		queue = queue[1:]
		e := g.Get(co.X, co.Y)
		if e.Assigned == -1 {
			continue
		}
		if anchor, ok := g.OwningClueRight(co.X, co.Y); ok {
			if !propagateDirection(g, anchor, true, co, &queue) {
				return false
			}
		}
		if anchor, ok := g.OwningClueDown(co.X, co.Y); ok {
			if !propagateDirection(g, anchor, false, co, &queue) {
				return false
			}
		}
	}
	return true
}

// propagateDirection restricts the combo list of the clue at anchor (in
// the given direction) to combinations containing the digit assigned at
// assignedAt, then re-derives the domain of every other cell in that run
// as the union of surviving combo digits intersected with its existing
// domain. Cells whose domain collapses to a single digit are
// auto-assigned and queued for further propagation.
func propagateDirection(g *grid.Grid, anchor grid.Coordinate, right bool, assignedAt grid.Coordinate, queue *[]grid.Coordinate) bool {
	c := g.Get(anchor.X, anchor.Y)
	var run []grid.Coordinate
	var combos cell.Combos
	if right {
		run = g.RunRight(anchor.X, anchor.Y)
		combos = c.CombosRight
	} else {
		run = g.RunDown(anchor.X, anchor.Y)
		combos = c.CombosDown
	}

	v := g.Get(assignedAt.X, assignedAt.Y).Assigned
	filtered := combos.ContainingDigit(v)
	if len(filtered) == 0 {
		return false
	}
	if right {
		c.CombosRight = filtered
	} else {
		c.CombosDown = filtered
	}
	g.Set(anchor.X, anchor.Y, c)

	digits := filtered.Digits()
	for _, co := range run {
		if co == assignedAt {
			continue
		}
		e := g.Get(co.X, co.Y)
		if e.Assigned != -1 {
			if e.Assigned == v {
				return false
			}
			continue
		}
		newDomain := e.Domain.Intersect(digits).Clear(v)
		if newDomain.IsEmpty() {
			return false
		}
		e.Domain = newDomain
		if d, ok := newDomain.Only(); ok {
			e.Assigned = d
			g.Set(co.X, co.Y, e)
			*queue = append(*queue, co)
			continue
		}
		g.Set(co.X, co.Y, e)
	}
	return true
}
