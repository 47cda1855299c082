// Package config loads application configuration from the environment, with
// optional .env file support for development.
package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. A .env file, when present,
// is loaded first; a missing file is not an error.
func Load(logger *slog.Logger, envFiles ...string) (*App, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
