// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Default locations of the on-device files.
const (
	DefaultDatabasePath = "data/expense_manager.db"
	DefaultSessionPath  = "data/session.json"
)

// Config holds all configuration for the application.
type Config struct {
	DatabasePath              string
	SessionPath               string
	LogLevel                  string
	LogFormat                 string
	BcryptCost                int
	AllowDestructiveMigration bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: os.Getenv("DATABASE_PATH"),
		SessionPath:  os.Getenv("SESSION_PATH"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
		BcryptCost:   bcrypt.DefaultCost,
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabasePath
	}
	if cfg.SessionPath == "" {
		cfg.SessionPath = DefaultSessionPath
	}

	cfg.AllowDestructiveMigration = os.Getenv("ALLOW_DESTRUCTIVE_MIGRATION") == "true"

	var errs []string

	if costStr := strings.TrimSpace(os.Getenv("BCRYPT_COST")); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			errs = append(errs, fmt.Sprintf("BCRYPT_COST must be an integer, got %q", costStr))
		} else {
			cfg.BcryptCost = cost
		}
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return cfg, nil
}

// validate checks that the loaded values are usable.
func (c *Config) validate() []string {
	var errs []string

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if c.DatabasePath == c.SessionPath {
		errs = append(errs, "DATABASE_PATH and SESSION_PATH must point to different files")
	}

	switch c.LogFormat {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}

	return errs
}

// JSONLogs reports whether structured JSON log output was requested.
func (c *Config) JSONLogs() bool {
	return c.LogFormat == "json"
}
