// Package config loads application configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ericfisherdev/passman/internal/application"
)

// DefaultDotenvPath is the file Load reads when no path is given.
const DefaultDotenvPath = ".env"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath         string                     `env:"PASSMAN_DB_PATH" envDefault:"passman.db"`
	LogLevel       slog.Level                 `env:"PASSMAN_LOG_LEVEL" envDefault:"WARN"`
	RemoveStrategy application.RemoveStrategy `env:"PASSMAN_REMOVE_STRATEGY" envDefault:"delete"`
}

// Load reads configuration from environment variables and returns a validated Config.
// Variables from dotenvPath (DefaultDotenvPath when empty) are applied first
// without overriding values already set in the environment; a missing file is
// not an error.
// Optional variables with defaults: PASSMAN_DB_PATH (passman.db),
// PASSMAN_LOG_LEVEL (warn), PASSMAN_REMOVE_STRATEGY (delete).
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath == "" {
		dotenvPath = DefaultDotenvPath
	}
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		return nil, errors.New("PASSMAN_DB_PATH must not be empty")
	}

	return &cfg, nil
}
