// Package config loads cmd/parsecdemo's configuration: a TOML file merged
// over built-in defaults for anything the file doesn't set.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level demo configuration.
type Config struct {
	Planner PlannerConfig `toml:"planner"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// PlannerConfig sizes the worker pool and the tick loop.
type PlannerConfig struct {
	NumThreads int           `toml:"num_threads"` // 0 means runtime.NumCPU()
	TickRate   time.Duration `toml:"tick_rate"`
	Systems    string        `toml:"systems_file"` // path to the YAML system roster
}

// LoggingConfig selects the zap logger's level and encoding.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// MetricsConfig controls the optional Prometheus HTTP endpoint.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
}

// Load reads and parses path, falling back to defaults() for any field the
// file doesn't set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Planner: PlannerConfig{
			NumThreads: 0,
			TickRate:   100 * time.Millisecond,
			Systems:    "systems.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			BindAddress: "127.0.0.1:9090",
		},
	}
}
