package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.toml")
	writeFile(t, path, `
[planner]
num_threads = 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Planner.NumThreads != 4 {
		t.Fatalf("NumThreads = %d, want 4", cfg.Planner.NumThreads)
	}
	if cfg.Planner.TickRate != 100*time.Millisecond {
		t.Fatalf("TickRate default = %v, want 100ms", cfg.Planner.TickRate)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("Logging defaults = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.BindAddress != "127.0.0.1:9090" {
		t.Fatalf("Metrics defaults = %+v", cfg.Metrics)
	}
}

func TestLoadParsesDurationString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "full.toml")
	writeFile(t, path, `
[planner]
num_threads = 0
tick_rate = "250ms"
systems_file = "config/systems.yaml"

[logging]
level = "debug"
format = "json"

[metrics]
enabled = false
bind_address = "0.0.0.0:9999"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Planner.TickRate != 250*time.Millisecond {
		t.Fatalf("TickRate = %v, want 250ms", cfg.Planner.TickRate)
	}
	if cfg.Planner.Systems != "config/systems.yaml" {
		t.Fatalf("Systems = %q", cfg.Planner.Systems)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.BindAddress != "0.0.0.0:9999" {
		t.Fatalf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/config.toml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing test fixture %s: %v", path, err)
	}
}
