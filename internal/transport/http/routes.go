package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sudoku-api/internal/core"
	"sudoku-api/internal/kakuro/cell"
	"sudoku-api/internal/kakuro/grid"
	"sudoku-api/internal/kakuro/solve"
	"sudoku-api/internal/kakuro/validate"
	"sudoku-api/internal/puzzles"
	"sudoku-api/pkg/config"
	"sudoku-api/pkg/constants"
)

var cfg *config.Config

// RegisterRoutes wires every Kakuro HTTP endpoint onto r.
func RegisterRoutes(r *gin.Engine, c *config.Config) {
	cfg = c

	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.GET("/daily", dailyHandler)
		api.GET("/puzzle/:seed", puzzleHandler)
		api.POST("/session/start", sessionStartHandler)
		api.POST("/validate", validatePlayHandler)
		api.POST("/validate/edit", validateEditHandler)
		api.POST("/solve", solveHandler)
		api.POST("/reset", resetHandler)
		api.POST("/reveal", revealHandler)
		api.POST("/custom/validate", customValidateHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.APIVersion,
	})
}

// puzzleHandler generates (or re-serves, if already cached this
// process) the puzzle for :seed at the requested difficulty.
func puzzleHandler(c *gin.Context) {
	seed := c.Param("seed")
	difficulty := core.Difficulty(c.DefaultQuery("d", constants.DifficultyEasy))

	l := puzzles.Global()
	if l == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "puzzle loader not initialized"})
		return
	}

	g, err := l.GetPuzzleBySeed(seed, string(difficulty))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": puzzleMeta(seed, difficulty, g),
		"grid": toGridDTO(g),
	})
}

// dailyHandler serves the puzzle keyed off today's UTC date, mirroring
// the teacher's daily-puzzle endpoint shape.
func dailyHandler(c *gin.Context) {
	difficulty := core.Difficulty(c.DefaultQuery("d", constants.DifficultyMedium))

	l := puzzles.Global()
	if l == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "puzzle loader not initialized"})
		return
	}

	g, seed, err := l.GetTodayPuzzle(string(difficulty))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": puzzleMeta(seed, difficulty, g),
		"grid": toGridDTO(g),
	})
}

func puzzleMeta(seed string, difficulty core.Difficulty, g *grid.Grid) core.PuzzleMeta {
	return core.PuzzleMeta{
		ID:         seed,
		Seed:       seed,
		Difficulty: string(difficulty),
		Width:      g.Width,
		Height:     g.Height,
		CreatedAt:  time.Now(),
	}
}

type sessionStartRequest struct {
	Seed       string          `json:"seed" binding:"required"`
	Difficulty core.Difficulty `json:"difficulty" binding:"required"`
}

// sessionStartHandler generates the puzzle for the requested seed and
// difficulty and returns it alongside an HMAC-signed session token that
// gates the later validate/solve/reset/reveal calls for this puzzle.
func sessionStartHandler(c *gin.Context) {
	var req sessionStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := puzzles.Global()
	if l == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "puzzle loader not initialized"})
		return
	}

	g, err := l.GetPuzzleBySeed(req.Seed, string(req.Difficulty))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	session := SessionToken{
		SessionID:  newSessionID(),
		PuzzleID:   req.Seed,
		Seed:       req.Seed,
		Difficulty: string(req.Difficulty),
		Width:      g.Width,
		Height:     g.Height,
		StartedAt:  now,
		ExpiresAt:  now.Add(constants.SessionTokenExpiry),
	}

	token, err := createToken(cfg.JWTSecret, session)
	if err != nil {
		log.Printf("ERROR [sessionStart]: failed to create token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"session_id": session.SessionID,
		"meta":       puzzleMeta(req.Seed, req.Difficulty, g),
		"grid":       toGridDTO(g),
	})
}

type validateRequest struct {
	Token  string       `json:"token" binding:"required"`
	Grid   core.GridDTO `json:"grid" binding:"required"`
	Strict bool         `json:"strict"`
}

// validatePlayHandler runs play-mode validation over a client-supplied,
// partially-assigned grid belonging to an active session.
func validatePlayHandler(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := verifyToken(cfg.JWTSecret, req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	g, err := fromGridDTO(req.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := validate.Play(g, req.Strict)
	c.JSON(http.StatusOK, gin.H{
		"outcome": outcomeLabel(outcome),
		"grid":    toGridDTO(g),
		"won":     outcome == validate.Ok && validate.IsWon(g),
	})
}

type editRequest struct {
	Token string       `json:"token" binding:"required"`
	Grid  core.GridDTO `json:"grid" binding:"required"`
}

// validateEditHandler runs edit-mode validation over an active session's
// user-authored clue layout with no assignments.
func validateEditHandler(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := verifyToken(cfg.JWTSecret, req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	g, err := fromGridDTO(req.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := validate.Edit(g)
	c.JSON(http.StatusOK, gin.H{
		"outcome": outcomeLabel(outcome),
		"grid":    toGridDTO(g),
	})
}

// customValidateHandler mirrors validateEditHandler over a
// user-authored, uuid-tagged custom puzzle submission. Unlike the
// session-bound handlers it takes no token: a custom puzzle isn't tied
// to any session/start call, mirroring the teacher's own
// customValidateHandler, which likewise skips verifyToken.
func customValidateHandler(c *gin.Context) {
	var req struct {
		CustomID string       `json:"custom_id"`
		Grid     core.GridDTO `json:"grid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := fromGridDTO(req.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CustomID == "" {
		req.CustomID = newSessionID()
	}

	outcome := validate.Edit(g)
	c.JSON(http.StatusOK, gin.H{
		"custom_id": req.CustomID,
		"outcome":   outcomeLabel(outcome),
		"grid":      toGridDTO(g),
	})
}

type solveRequest struct {
	Token      string        `json:"token" binding:"required"`
	Grid       core.GridDTO  `json:"grid" binding:"required"`
	Strategy   core.Strategy `json:"strategy"`
	Seed       int64         `json:"seed"`
	TimeoutSec int           `json:"timeout_seconds"`
}

// solveHandler runs the CSP solver over an active session's grid and
// returns the solved assignment, or a no_solution/abandoned error.
func solveHandler(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := verifyToken(cfg.JWTSecret, req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	g, err := fromGridDTO(req.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategy, err := parseStrategy(req.Strategy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeout := constants.SolverTimeout
	if req.TimeoutSec > 0 {
		timeout = time.Duration(req.TimeoutSec) * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	rng := rand.New(rand.NewSource(req.Seed))
	s := &solve.Solver{}
	if err := s.Solve(ctx, g, strategy, rng, nil); err != nil {
		switch {
		case errors.Is(err, solve.ErrNoSolution):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no_solution"})
		case errors.Is(err, solve.ErrAbandoned):
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "abandoned", "grid": toGridDTO(g)})
		default:
			log.Printf("ERROR [solve]: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal solve error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"grid": toGridDTO(g)})
}

// resetHandler clears an active session's grid assignments back to a
// fresh playable state.
func resetHandler(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := verifyToken(cfg.JWTSecret, req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	g, err := fromGridDTO(req.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validate.Reset(g)
	c.JSON(http.StatusOK, gin.H{"grid": toGridDTO(g)})
}

// revealHandler copies each Empty cell's known solution into its
// assignment for an active session, requiring the grid to carry a
// solution.
func revealHandler(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := verifyToken(cfg.JWTSecret, req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	g, err := fromGridDTO(req.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Reveal(g); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": toGridDTO(g)})
}

func parseStrategy(s core.Strategy) (solve.Strategy, error) {
	switch s {
	case "", core.StrategyFast:
		return solve.Fast, nil
	case core.StrategyMedium:
		return solve.Medium, nil
	case core.StrategySlow:
		return solve.Slow, nil
	default:
		return 0, fmt.Errorf("unknown strategy: %s", s)
	}
}

func outcomeLabel(o validate.Outcome) string {
	switch o {
	case validate.Ok:
		return constants.OutcomeOk
	case validate.DuplicateOnly:
		return constants.OutcomeDuplicateOnly
	case validate.WrongSumOnly:
		return constants.OutcomeWrongSumOnly
	case validate.Mixed:
		return constants.OutcomeMixed
	case validate.BlockedOnly:
		return constants.OutcomeBlockedOnly
	case validate.BadValueOnly:
		return constants.OutcomeBadValueOnly
	case validate.MixedEdit:
		return constants.OutcomeMixedEdit
	default:
		return "unknown"
	}
}

// toGridDTO converts an engine grid into its JSON wire form, row-major.
func toGridDTO(g *grid.Grid) core.GridDTO {
	dto := core.GridDTO{Width: g.Width, Height: g.Height, HasSolution: g.HasSolution}
	dto.Cells = make([][]core.CellDTO, g.Height)
	for y := 0; y < g.Height; y++ {
		row := make([]core.CellDTO, g.Width)
		for x := 0; x < g.Width; x++ {
			row[x] = toCellDTO(g.Get(x, y))
		}
		dto.Cells[y] = row
	}
	return dto
}

func toCellDTO(c cell.Cell) core.CellDTO {
	switch c.Kind {
	case cell.Block:
		return core.CellDTO{Kind: "block"}
	case cell.Clue:
		return core.CellDTO{
			Kind:     "clue",
			SumRight: c.SumRight,
			SumDown:  c.SumDown,
			ErrRight: c.ErrRight,
			ErrDown:  c.ErrDown,
		}
	default:
		dto := core.CellDTO{Kind: "empty", Domain: c.Domain.ToSlice(), Err: c.Err}
		if c.Solution != -1 {
			s := c.Solution
			dto.Solution = &s
		}
		if c.Assigned != -1 {
			a := c.Assigned
			dto.Assigned = &a
		}
		return dto
	}
}

// fromGridDTO converts a client-supplied grid back into the engine's
// representation, rejecting malformed dimensions or cell kinds.
func fromGridDTO(dto core.GridDTO) (*grid.Grid, error) {
	if dto.Width <= 0 || dto.Height <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", dto.Width, dto.Height)
	}
	if len(dto.Cells) != dto.Height {
		return nil, fmt.Errorf("expected %d rows, got %d", dto.Height, len(dto.Cells))
	}

	g := grid.New(dto.Width, dto.Height)
	g.HasSolution = dto.HasSolution

	for y, row := range dto.Cells {
		if len(row) != dto.Width {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", y, dto.Width, len(row))
		}
		for x, cellDTO := range row {
			c, err := fromCellDTO(cellDTO)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			g.Set(x, y, c)
		}
	}
	return g, nil
}

func fromCellDTO(dto core.CellDTO) (cell.Cell, error) {
	switch dto.Kind {
	case "block":
		return cell.NewBlock(), nil
	case "clue":
		return cell.Cell{
			Kind:     cell.Clue,
			SumRight: dto.SumRight,
			SumDown:  dto.SumDown,
			ErrRight: dto.ErrRight,
			ErrDown:  dto.ErrDown,
		}, nil
	case "empty":
		e := cell.NewEmpty()
		if dto.Solution != nil {
			e.Solution = *dto.Solution
		}
		if dto.Assigned != nil {
			e.Assigned = *dto.Assigned
		}
		if len(dto.Domain) > 0 {
			e.Domain = cell.NewCandidates(dto.Domain)
		}
		e.Err = dto.Err
		return e, nil
	default:
		return cell.Cell{}, fmt.Errorf("unknown cell kind %q", dto.Kind)
	}
}
