package constants

import "time"

// Grid geometry
const (
	DefaultWidth  = 10
	DefaultHeight = 10
	MinDigit      = 1
	MaxDigit      = 9
)

// Solver limits
const (
	MaxSolverSteps  = 20000
	SolverTimeout   = 10 * time.Second
)

// Session
const (
	SessionTokenExpiry = 24 * time.Hour
)

// Difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

// Difficulty compact keys (one-letter abbreviations; the cmd/generate
// puzzle file stores the full difficulty name)
var DifficultyKeys = map[string]string{
	DifficultyEasy:   "e",
	DifficultyMedium: "m",
	DifficultyHard:   "h",
	DifficultyExpert: "x",
}

// Target clue counts by difficulty (spec.md §4.D's typical mapping)
var TargetClues = map[string]int{
	DifficultyEasy:   40,
	DifficultyMedium: 30,
	DifficultyHard:   20,
	DifficultyExpert: 10,
}

// Validation outcomes (play-mode)
const (
	OutcomeOk            = "ok"
	OutcomeDuplicateOnly = "duplicate_only"
	OutcomeWrongSumOnly  = "wrong_sum_only"
	OutcomeMixed         = "mixed"
)

// Validation outcomes (edit-mode)
const (
	OutcomeBlockedOnly  = "blocked_only"
	OutcomeBadValueOnly = "bad_value_only"
	OutcomeMixedEdit    = "mixed_edit"
)

// API version
const APIVersion = "0.1.0"

// Default ports
const DefaultPort = "8080"

// Date format
const DateFormat = "2006-01-02"
