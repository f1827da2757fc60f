package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "MASTER_DATA_PATH", "DEFAULT_LANG", "MAX_RANGE_DAYS",
		"DATABASE_PATH", "API_KEY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "./data/master_data.json", cfg.MasterDataPath)
	assert.Equal(t, "ar", cfg.DefaultLang)
	assert.Equal(t, 31, cfg.MaxRangeDays)
	assert.Empty(t, cfg.DatabasePath)
	assert.False(t, cfg.SnapshotsEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("MASTER_DATA_PATH", "/data/master.yaml")
	t.Setenv("DEFAULT_LANG", "fr")
	t.Setenv("MAX_RANGE_DAYS", "7")
	t.Setenv("DATABASE_PATH", "/data/snapshots.db")
	t.Setenv("API_KEY", "secret-key-123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Port:           3000,
		Env:            EnvProduction,
		MasterDataPath: "/data/master.yaml",
		DefaultLang:    "fr",
		MaxRangeDays:   7,
		DatabasePath:   "/data/snapshots.db",
		APIKey:         "secret-key-123",
		LogLevel:       "debug",
		LogFormat:      "json",
	}, cfg)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SnapshotsEnabled())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY is required in production")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:           8080,
			Env:            EnvDevelopment,
			MasterDataPath: "./data/master_data.json",
			DefaultLang:    "ar",
			MaxRangeDays:   31,
			LogLevel:       "info",
			LogFormat:      "text",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid development config", func(*Config) {}, ""},
		{"valid production config", func(c *Config) {
			c.Env = EnvProduction
			c.APIKey = "key"
		}, ""},
		{"port too low", func(c *Config) { c.Port = 0 }, "PORT"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"unknown env", func(c *Config) { c.Env = "qa" }, "ENV"},
		{"missing master data", func(c *Config) { c.MasterDataPath = "" }, "MASTER_DATA_PATH"},
		{"unsupported language", func(c *Config) { c.DefaultLang = "de" }, "DEFAULT_LANG"},
		{"zero range", func(c *Config) { c.MaxRangeDays = 0 }, "MAX_RANGE_DAYS"},
		{"range over a year", func(c *Config) { c.MaxRangeDays = 400 }, "MAX_RANGE_DAYS"},
		{"production without key", func(c *Config) { c.Env = EnvProduction }, "API_KEY"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_CollectsAllProblems(t *testing.T) {
	cfg := Config{Port: 0, Env: "qa", LogLevel: "x", LogFormat: "y"}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"PORT", "ENV", "MASTER_DATA_PATH", "DEFAULT_LANG", "MAX_RANGE_DAYS", "LOG_LEVEL", "LOG_FORMAT"} {
		assert.Contains(t, err.Error(), want)
	}
}
