// Command generate batch-produces Kakuro puzzles across a worker pool and
// writes them to a JSON file, for pre-warming caches or building fixture
// corpora outside the live server's on-demand generation path.
package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/generate"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/internal/puzzles"
)

// CompactPuzzle is the on-disk form of one generated grid: its
// dimensions, solution digits in row-major order (0 for Block/Clue
// cells), and the clue sums needed to reconstruct the layout.
type CompactPuzzle struct {
	Seed       string `json:"seed"`
	Difficulty string `json:"difficulty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Solution   []int  `json:"solution"`
	ClueSumsR  []int  `json:"clue_sums_right"`
	ClueSumsD  []int  `json:"clue_sums_down"`
}

// PuzzleFile is the top-level structure of the output JSON document.
type PuzzleFile struct {
	Version int             `json:"version"`
	Count   int             `json:"count"`
	Puzzles []CompactPuzzle `json:"puzzles"`
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	count := flag.Int("n", 1000, "number of puzzles to generate")
	output := flag.String("o", "puzzles.json", "output file path")
	workers := flag.Int("w", 0, "number of worker goroutines (default: num CPUs)")
	startSeed := flag.Int64("seed", 1, "starting seed value")
	width := flag.Int("width", 10, "grid width")
	height := flag.Int("height", 10, "grid height")
	difficulty := flag.String("difficulty", "easy", "difficulty: easy|medium|hard|expert")
	flag.Parse()

	diff, ok := puzzles.DifficultyKey[*difficulty]
	if !ok {
		log.Fatal().Str("difficulty", *difficulty).Msg("unknown difficulty")
	}

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}

	log.Info().Int("count", *count).Int("workers", *workers).
		Int("width", *width).Int("height", *height).
		Str("difficulty", *difficulty).Msg("starting generation")

	start := time.Now()
	out := make([]CompactPuzzle, *count)
	var generated int64

	work := make(chan int, *count)
	for i := 0; i < *count; i++ {
		work <- i
	}
	close(work)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g := atomic.LoadInt64(&generated)
				elapsed := time.Since(start)
				rate := float64(g) / elapsed.Seconds()
				log.Info().Int64("generated", g).Int("total", *count).
					Float64("per_sec", rate).Msg("progress")
			case <-done:
				return
			}
		}
	}()

	cfg := generate.DefaultConfig()
	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			workerLog := log.With().Int("worker", workerID).Logger()
			for idx := range work {
				seed := *startSeed + int64(idx)
				out[idx] = generatePuzzle(seed, *width, *height, diff, *difficulty, cfg)
				if n := atomic.AddInt64(&generated, 1); n%500 == 0 {
					workerLog.Debug().Int64("count", n).Msg("checkpoint")
				}
			}
		}(w)
	}

	wg.Wait()
	close(done)

	elapsed := time.Since(start)
	log.Info().Int("count", *count).Dur("elapsed", elapsed).
		Float64("per_sec", float64(*count)/elapsed.Seconds()).Msg("generation complete")

	file := PuzzleFile{Version: 1, Count: *count, Puzzles: out}
	data, err := json.Marshal(file)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal puzzle file")
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Fatal().Err(err).Str("path", *output).Msg("failed to write puzzle file")
	}

	info, _ := os.Stat(*output)
	log.Info().Str("path", *output).Float64("size_mb", float64(info.Size())/1024/1024).Msg("done")
}

func generatePuzzle(seed int64, width, height int, diff generate.Difficulty, diffName string, cfg generate.Config) CompactPuzzle {
	g := grid.New(width, height)
	rng := rand.New(rand.NewSource(seed))
	generate.Generate(g, diff, cfg, rng)

	solution := make([]int, width*height)
	sumsRight := make([]int, width*height)
	sumsDown := make([]int, width*height)

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := g.Get(x, y)
			switch c.Kind {
			case cell.Empty:
				solution[i] = c.Solution
			case cell.Clue:
				sumsRight[i] = c.SumRight
				sumsDown[i] = c.SumDown
			}
			i++
		}
	}

	return CompactPuzzle{
		Seed:       strconv.FormatInt(seed, 10),
		Difficulty: diffName,
		Width:      width,
		Height:     height,
		Solution:   solution,
		ClueSumsR:  sumsRight,
		ClueSumsD:  sumsDown,
	}
}
