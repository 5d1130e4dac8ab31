// Package config loads the engine configuration from defaults, an optional
// YAML file and FLIGHT_ENGINE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// FLIGHT_ENGINE_SIMULATION_TIME_STEP.
const EnvPrefix = "FLIGHT_ENGINE"

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Batch      BatchConfig      `mapstructure:"batch" yaml:"batch"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
}

// LoggerConfig configures the zap logger and optional rotating log file.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"` // "console" or "json"
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"` // MB
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to console color names.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SimulationConfig holds the defaults and hard limits of the simulation core.
type SimulationConfig struct {
	TimeStep       float64 `mapstructure:"time_step" yaml:"time_step"`               // s, used when an input omits dt
	MaxFlightTime  float64 `mapstructure:"max_flight_time" yaml:"max_flight_time"`   // s
	MaxRollTime    float64 `mapstructure:"max_roll_time" yaml:"max_roll_time"`       // s
	MaxSpeed       float64 `mapstructure:"max_speed" yaml:"max_speed"`               // m/s
	StopSpeed      float64 `mapstructure:"stop_speed" yaml:"stop_speed"`             // m/s
	MinBounceSpeed float64 `mapstructure:"min_bounce_speed" yaml:"min_bounce_speed"` // m/s
}

// BatchConfig tunes RunBatch.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// CacheConfig configures the result cache. An empty RedisURL selects the
// in-process cache.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	RedisURL   string        `mapstructure:"redis_url" yaml:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"` // in-process cache only
}

// NewDefaultConfig returns a Config populated only from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "flight-engine")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("simulation.time_step", 0.005)
	v.SetDefault("simulation.max_flight_time", 30.0)
	v.SetDefault("simulation.max_roll_time", 60.0)
	v.SetDefault("simulation.max_speed", 1000.0)
	v.SetDefault("simulation.stop_speed", 0.15)
	v.SetDefault("simulation.min_bounce_speed", 0.3)

	v.SetDefault("batch.concurrency", 8)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.max_entries", 10000)
}

// BindEnv makes every key overridable through FLIGHT_ENGINE_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation configuration invalid: %w", err)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be a positive integer")
	}
	if c.Logger.Format != "console" && c.Logger.Format != "json" {
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	return nil
}

// Validate checks the simulation limits.
func (s SimulationConfig) Validate() error {
	// Matches physics.MaxTimeStep.
	if !(s.TimeStep > 0 && s.TimeStep <= 0.1) {
		return fmt.Errorf("time_step must be in (0, 0.1], got %g", s.TimeStep)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_flight_time", s.MaxFlightTime},
		{"max_roll_time", s.MaxRollTime},
		{"max_speed", s.MaxSpeed},
	} {
		if !(f.v > 0) {
			return fmt.Errorf("%s must be positive, got %g", f.name, f.v)
		}
	}
	if !(s.StopSpeed >= 0) || !(s.MinBounceSpeed >= 0) {
		return fmt.Errorf("stop_speed and min_bounce_speed must be non-negative")
	}
	return nil
}
