// Package config loads the settings shared by the flshm tools from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. FLSHM_PER_USER.
const Prefix = "flshm"

// Config holds the tool configuration.
type Config struct {
	// PerUser selects the per-user channel, matching the ASVM isPerUser setting.
	PerUser bool `envconfig:"PER_USER" default:"false"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEV" default:"false"`

	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"50ms"`
	MetricsAddr  string        `envconfig:"METRICS_ADDR" default:":9464"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		PerUser:        false,
		LogLevel:       "info",
		LogDevelopment: false,
		PollInterval:   50 * time.Millisecond,
		MetricsAddr:    ":9464",
	}
}
