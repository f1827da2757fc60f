// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Calendar
	MasterDataPath string // JSON or YAML master dataset
	DefaultLang    string // language used when a request names none
	MaxRangeDays   int    // largest day range served in one request

	// Snapshot store; empty disables it
	DatabasePath string

	// Authentication
	APIKey string // guards the admin endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// No-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	cfg.MasterDataPath = getEnv("MASTER_DATA_PATH", "./data/master_data.json")
	cfg.DefaultLang = getEnv("DEFAULT_LANG", locale.Base)
	cfg.MaxRangeDays = getEnvInt("MAX_RANGE_DAYS", 31)

	cfg.DatabasePath = getEnv("DATABASE_PATH", "")

	cfg.APIKey = getEnv("API_KEY", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.MasterDataPath == "" {
		errs = append(errs, errors.New("MASTER_DATA_PATH is required"))
	}

	if !locale.IsSupported(c.DefaultLang) {
		errs = append(errs, fmt.Errorf("DEFAULT_LANG must be one of %v; got %q", locale.Codes(), c.DefaultLang))
	}

	// A year is the largest batch the engine builds.
	if c.MaxRangeDays < 1 || c.MaxRangeDays > 366 {
		errs = append(errs, fmt.Errorf("MAX_RANGE_DAYS must be between 1 and 366, got %d", c.MaxRangeDays))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SnapshotsEnabled reports whether a snapshot store is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.DatabasePath != ""
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
