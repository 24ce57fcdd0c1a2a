// Package puzzles serves Kakuro grids by seed, generating and caching
// them on demand rather than reading a pre-baked file: the engine's own
// Generate is deterministic given an RNG seed, so the seed string itself
// is the persistence format.
package puzzles

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"sudoku-api/internal/kakuro/generate"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/pkg/constants"
)

// DifficultyKey maps full difficulty names to the generator's enum.
var DifficultyKey = map[string]generate.Difficulty{
	constants.DifficultyEasy:   generate.Easy,
	constants.DifficultyMedium: generate.Medium,
	constants.DifficultyHard:   generate.Hard,
	constants.DifficultyExpert: generate.Expert,
}

type cacheKey struct {
	seed       string
	difficulty string
}

// Loader generates and caches Kakuro grids by (seed, difficulty),
// keeping the teacher's singleton-with-mutex shape while generating
// in-process instead of reading a puzzle file.
type Loader struct {
	width, height int
	cfg           generate.Config
	mu            sync.RWMutex
	cache         map[cacheKey]*grid.Grid
}

var (
	globalLoader *Loader
	loadOnce     sync.Once
)

// NewLoader returns a loader generating grids of the given dimensions.
func NewLoader(width, height int) *Loader {
	return &Loader{
		width:  width,
		height: height,
		cfg:    generate.DefaultConfig(),
		cache:  make(map[cacheKey]*grid.Grid),
	}
}

// LoadGlobal initializes the global loader singleton exactly once.
func LoadGlobal(width, height int) {
	loadOnce.Do(func() {
		globalLoader = NewLoader(width, height)
	})
}

// Global returns the global loader instance.
func Global() *Loader {
	return globalLoader
}

// SetGlobal sets the global loader instance (for testing).
func SetGlobal(l *Loader) {
	globalLoader = l
}

// Count reports how many distinct (seed, difficulty) grids have been
// generated so far this process.
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// seedToRNGSeed deterministically derives an int64 RNG seed from a
// string seed and difficulty, via FNV-1a.
func seedToRNGSeed(seed, difficulty string) int64 {
	h := fnv.New64a()
	h.Write([]byte(difficulty + ":" + seed))
	return int64(h.Sum64()) //nolint:gosec // deterministic mapping, not a security boundary
}

// GetPuzzleBySeed returns a freshly-cloned grid for (seed, difficulty),
// generating it on first request and serving a clone of the cached
// original thereafter so callers may mutate freely without corrupting
// the cache.
func (l *Loader) GetPuzzleBySeed(seed, difficulty string) (*grid.Grid, error) {
	diff, ok := DifficultyKey[difficulty]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty: %s", difficulty)
	}

	key := cacheKey{seed: seed, difficulty: difficulty}

	l.mu.RLock()
	cached, found := l.cache[key]
	l.mu.RUnlock()
	if found {
		return cached.Clone(), nil
	}

	g := grid.New(l.width, l.height)
	rng := rand.New(rand.NewSource(seedToRNGSeed(seed, difficulty)))
	generate.Generate(g, diff, l.cfg, rng)

	l.mu.Lock()
	l.cache[key] = g
	l.mu.Unlock()

	return g.Clone(), nil
}

// GetDailyPuzzle returns the puzzle for a given UTC date.
func (l *Loader) GetDailyPuzzle(date time.Time, difficulty string) (*grid.Grid, string, error) {
	dateStr := date.UTC().Format(constants.DateFormat)
	seed := "daily:" + dateStr
	g, err := l.GetPuzzleBySeed(seed, difficulty)
	return g, seed, err
}

// GetTodayPuzzle returns the puzzle for today (UTC).
func (l *Loader) GetTodayPuzzle(difficulty string) (*grid.Grid, string, error) {
	return l.GetDailyPuzzle(time.Now(), difficulty)
}
