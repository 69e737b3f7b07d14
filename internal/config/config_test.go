package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.PerUser)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDevelopment)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, ":9464", cfg.MetricsAddr)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	t.Setenv("FLSHM_PER_USER", "true")
	t.Setenv("FLSHM_LOG_LEVEL", "debug")
	t.Setenv("FLSHM_LOG_DEV", "true")
	t.Setenv("FLSHM_POLL_INTERVAL", "5ms")
	t.Setenv("FLSHM_METRICS_ADDR", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.PerUser)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.Equal(t, 5*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "127.0.0.1:9000", cfg.MetricsAddr)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("FLSHM_PER_USER", "maybe")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, Default(), cfg)
}
