// Package bootstrap wires configuration, storage, adapters, and services into
// a running portal process.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/samprabha/portal/config"
)

// InitLogger builds the process-wide JSON logger and installs it as the
// slog default.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads configuration from the environment, optionally layered
// over a .env file for local development.
func LoadConfig() (config.AppConfig, error) {
	if err := loadDotEnv(); err != nil {
		return config.AppConfig{}, err
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// loadDotEnv applies a .env file when one exists. A missing file is normal
// outside development; any other read failure is surfaced.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return nil
	}
	return fmt.Errorf("load .env file: %w", err)
}
