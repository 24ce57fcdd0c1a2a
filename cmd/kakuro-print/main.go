// Command kakuro-print renders a generated Kakuro grid to the terminal
// in color, for eyeballing generator/solver output without a client.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/fatih/color"

	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/generate"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/internal/puzzles"
)

func main() {
	seed := flag.Int64("seed", 1, "RNG seed")
	width := flag.Int("width", 8, "grid width")
	height := flag.Int("height", 8, "grid height")
	difficulty := flag.String("difficulty", "easy", "difficulty: easy|medium|hard|expert")
	showSolution := flag.Bool("solution", false, "print the solution digits instead of blanks")
	flag.Parse()

	diff, ok := puzzles.DifficultyKey[*difficulty]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown difficulty: %s\n", *difficulty)
		os.Exit(1)
	}

	g := grid.New(*width, *height)
	rng := rand.New(rand.NewSource(*seed))
	generate.Generate(g, diff, generate.DefaultConfig(), rng)

	printGrid(g, *showSolution)
}

var (
	blockColor = color.New(color.BgBlack, color.FgWhite)
	clueColor  = color.New(color.FgHiBlack)
	emptyColor = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed, color.Bold)
)

func printGrid(g *grid.Grid, showSolution bool) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			switch c.Kind {
			case cell.Block:
				blockColor.Print(" ## ")
			case cell.Clue:
				label := fmt.Sprintf("%2d\\%2d", c.SumDown, c.SumRight)
				clueColor.Print(label)
			case cell.Empty:
				digit := 0
				if showSolution {
					digit = c.Solution
				} else if c.Assigned != -1 {
					digit = c.Assigned
				}
				if digit == 0 {
					fmt.Print("  . ")
				} else if c.Err {
					errColor.Printf("  %d ", digit)
				} else {
					emptyColor.Printf("  %d ", digit)
				}
			}
		}
		fmt.Println()
	}
}
