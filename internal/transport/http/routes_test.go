package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudoku-api/internal/core"
	"sudoku-api/internal/puzzles"
	"sudoku-api/pkg/config"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{JWTSecret: "test-secret-key-at-least-32-bytes-long"}
	RegisterRoutes(r, cfg)
	return r
}

func init() {
	puzzles.LoadGlobal(6, 6)
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "GET", "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["version"])
}

func TestPuzzleHandler(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "GET", "/api/puzzle/seed-abc?d=easy", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Meta core.PuzzleMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "seed-abc", resp.Meta.Seed)
	assert.Equal(t, "easy", resp.Meta.Difficulty)
}

func TestPuzzleHandlerUnknownDifficulty(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "GET", "/api/puzzle/seed-abc?d=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDailyHandler(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "GET", "/api/daily", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Meta core.PuzzleMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "medium", resp.Meta.Difficulty)
	assert.NotEmpty(t, resp.Meta.Seed)
}

func TestSessionStartHandler(t *testing.T) {
	router := setupRouter()
	w := doRequest(router, "POST", "/api/session/start", sessionStartRequest{
		Seed:       "seed-xyz",
		Difficulty: core.DifficultyMedium,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.NotEmpty(t, resp["session_id"])
	assert.NotNil(t, resp["grid"])
	assert.NotNil(t, resp["meta"])
}

func fetchGridDTO(t *testing.T, router *gin.Engine, seed, difficulty string) core.GridDTO {
	t.Helper()
	w := doRequest(router, "GET", "/api/puzzle/"+seed+"?d="+difficulty, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Grid core.GridDTO `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Grid
}

// startSession opens a session for seed/difficulty and returns its token
// alongside the puzzle grid, for use against the token-gated handlers.
func startSession(t *testing.T, router *gin.Engine, seed, difficulty string) (string, core.GridDTO) {
	t.Helper()
	w := doRequest(router, "POST", "/api/session/start", sessionStartRequest{
		Seed:       seed,
		Difficulty: core.Difficulty(difficulty),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string       `json:"token"`
		Grid  core.GridDTO `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.Grid
}

func TestValidatePlayHandlerOk(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "validate-seed", "easy")

	w := doRequest(router, "POST", "/api/validate", validateRequest{Token: token, Grid: g})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["outcome"])
}

func TestValidatePlayHandlerRejectsMissingToken(t *testing.T) {
	router := setupRouter()
	_, g := startSession(t, router, "validate-seed-no-token", "easy")

	w := doRequest(router, "POST", "/api/validate", validateRequest{Grid: g})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidatePlayHandlerRejectsBadToken(t *testing.T) {
	router := setupRouter()
	_, g := startSession(t, router, "validate-seed-bad-token", "easy")

	w := doRequest(router, "POST", "/api/validate", validateRequest{Token: "garbage.token", Grid: g})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateEditHandler(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "edit-seed", "easy")

	w := doRequest(router, "POST", "/api/validate/edit", editRequest{Token: token, Grid: g})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["outcome"])
}

func TestCustomValidateHandlerAssignsID(t *testing.T) {
	router := setupRouter()
	g := fetchGridDTO(t, router, "custom-seed", "easy")

	w := doRequest(router, "POST", "/api/custom/validate", map[string]any{"grid": g})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["custom_id"])
}

func TestSolveHandlerSolvesGeneratedPuzzle(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "solve-seed", "easy")

	w := doRequest(router, "POST", "/api/solve", solveRequest{
		Token:    token,
		Grid:     g,
		Strategy: core.StrategyFast,
		Seed:     42,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Grid core.GridDTO `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, row := range resp.Grid.Cells {
		for _, c := range row {
			if c.Kind == "empty" {
				assert.NotNil(t, c.Assigned)
			}
		}
	}
}

func TestSolveHandlerRejectsUnknownStrategy(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "solve-seed-2", "easy")

	w := doRequest(router, "POST", "/api/solve", solveRequest{Token: token, Grid: g, Strategy: "warp-speed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetHandlerClearsAssignments(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "reset-seed", "easy")

	w := doRequest(router, "POST", "/api/reset", editRequest{Token: token, Grid: g})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Grid core.GridDTO `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, row := range resp.Grid.Cells {
		for _, c := range row {
			if c.Kind == "empty" {
				assert.Nil(t, c.Assigned)
			}
		}
	}
}

func TestRevealHandlerFillsSolution(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "reveal-seed", "easy")

	w := doRequest(router, "POST", "/api/reveal", editRequest{Token: token, Grid: g})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Grid core.GridDTO `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, row := range resp.Grid.Cells {
		for _, c := range row {
			if c.Kind == "empty" {
				require.NotNil(t, c.Assigned)
				assert.Equal(t, *c.Solution, *c.Assigned)
			}
		}
	}
}

func TestRevealHandlerRejectsGridWithoutSolution(t *testing.T) {
	router := setupRouter()
	token, g := startSession(t, router, "reveal-no-solution", "easy")
	g.HasSolution = false

	w := doRequest(router, "POST", "/api/reveal", editRequest{Token: token, Grid: g})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidateHandlerRejectsMalformedGrid(t *testing.T) {
	router := setupRouter()
	token, _ := startSession(t, router, "malformed-seed", "easy")

	w := doRequest(router, "POST", "/api/validate", map[string]any{
		"token": token,
		"grid":  map[string]any{"width": 2, "height": 2, "cells": [][]any{}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
