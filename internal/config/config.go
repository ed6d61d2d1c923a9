package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration for the panel.
type Config struct {
	Port        string `validate:"required,numeric"`
	Provider    string `validate:"oneof=balldontlie fixture"`
	Balldontlie BalldontlieConfig
	Metrics     MetricsConfig
	Log         LogConfig
}

// LogConfig selects the slog handler and where it writes.
type LogConfig struct {
	Level  string
	Format string `validate:"omitempty,oneof=text json"`
	// File is only used by the terminal panel; empty discards logs there.
	File string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:        envOrDefault(envPort, defaultPort),
		Provider:    strings.ToLower(envOrDefault(envProvider, defaultProvider)),
		Balldontlie: loadBalldontlie(),
		Metrics:     loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, ""),
			Format: envOrDefault(envLogFormat, ""),
			File:   envOrDefault(envLogFile, ""),
		},
	}
}

var validate = validator.New()

// Validate checks the loaded values before anything is wired.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
