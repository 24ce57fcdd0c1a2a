package config

import (
	"errors"
	"os"
	"strconv"

	"sudoku-api/pkg/constants"
)

type Config struct {
	JWTSecret  string
	Port       string
	GridWidth  int
	GridHeight int
}

// Load loads configuration from environment variables.
// Returns an error if JWT_SECRET is not set or equals "changeme".
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	if jwtSecret == "" {
		return nil, errors.New("SECURITY ERROR: JWT_SECRET environment variable is required but not set")
	}

	if jwtSecret == "changeme" {
		return nil, errors.New("SECURITY ERROR: JWT_SECRET cannot be 'changeme' - please set a secure secret")
	}

	if len(jwtSecret) < 32 {
		return nil, errors.New("SECURITY ERROR: JWT_SECRET must be at least 32 characters long")
	}

	width, err := getEnvInt("GRID_WIDTH", constants.DefaultWidth)
	if err != nil {
		return nil, err
	}
	height, err := getEnvInt("GRID_HEIGHT", constants.DefaultHeight)
	if err != nil {
		return nil, err
	}

	return &Config{
		JWTSecret:  jwtSecret,
		Port:       getEnv("PORT", constants.DefaultPort),
		GridWidth:  width,
		GridHeight: height,
	}, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.New("CONFIG ERROR: " + key + " must be an integer")
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
