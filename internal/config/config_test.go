package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "flight-engine", cfg.Logger.ServiceName)
	assert.Equal(t, 0.005, cfg.Simulation.TimeStep)
	assert.Equal(t, 30.0, cfg.Simulation.MaxFlightTime)
	assert.Equal(t, 60.0, cfg.Simulation.MaxRollTime)
	assert.Equal(t, 0.15, cfg.Simulation.StopSpeed)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10000, cfg.Cache.MaxEntries)
	assert.NoError(t, cfg.Validate())

	cfg.Simulation.StopSpeed = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero time step", func(c *Config) { c.Simulation.TimeStep = 0 }, "time_step must be in"},
		{"time step too large", func(c *Config) { c.Simulation.TimeStep = 0.2 }, "time_step must be in"},
		{"negative flight time", func(c *Config) { c.Simulation.MaxFlightTime = -1 }, "max_flight_time must be positive"},
		{"zero speed ceiling", func(c *Config) { c.Simulation.MaxSpeed = 0 }, "max_speed must be positive"},
		{"negative stop speed", func(c *Config) { c.Simulation.StopSpeed = -0.1 }, "must be non-negative"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "batch.concurrency must be a positive integer"},
		{"unknown log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"cache without ttl", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTL = 0 }, "cache.ttl"},
		{"negative cache size", func(c *Config) { c.Cache.MaxEntries = -1 }, "cache.max_entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("yaml overrides defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
simulation:
  time_step: 0.001
  max_roll_time: 120
batch:
  concurrency: 2
cache:
  enabled: true
  redis_url: redis://localhost:6379/0
  ttl: 10m
`)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 0.001, cfg.Simulation.TimeStep)
		assert.Equal(t, 120.0, cfg.Simulation.MaxRollTime)
		assert.Equal(t, 30.0, cfg.Simulation.MaxFlightTime)
		assert.Equal(t, 2, cfg.Batch.Concurrency)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("FLIGHT_ENGINE_BATCH_CONCURRENCY", "3")
		t.Setenv("FLIGHT_ENGINE_SERVER_ADDR", ":9090")
		v := viper.New()
		SetDefaults(v)
		BindEnv(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Batch.Concurrency)
		assert.Equal(t, ":9090", cfg.Server.Addr)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("simulation.max_speed", -5)

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}
