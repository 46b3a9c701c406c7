package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Simulation.Scenario != "breach" {
		t.Errorf("expected scenario 'breach', got '%s'", config.Simulation.Scenario)
	}
	if config.Simulation.TickRate != 100*time.Millisecond {
		t.Errorf("expected TickRate 100ms, got %v", config.Simulation.TickRate)
	}
	if !config.Simulation.Reactions {
		t.Error("expected reactions to be enabled by default")
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if config.Blob.Driver != "fs" {
		t.Errorf("expected blob driver 'fs', got '%s'", config.Blob.Driver)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "atmos.yaml")

	configContent := `
simulation:
  width: 40
  height: 30
  scenario: fire
  tick_rate: 50ms
  workers: 8

physics:
  min_temp_delta: 1.5

blob:
  driver: s3
  s3:
    bucket: ${ATMOS_TEST_BUCKET}
    path_style: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("ATMOS_TEST_BUCKET", "snapshots")

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Simulation.Width != 40 || config.Simulation.Height != 30 {
		t.Errorf("expected 40x30, got %dx%d", config.Simulation.Width, config.Simulation.Height)
	}
	if config.Simulation.Scenario != "fire" {
		t.Errorf("expected scenario 'fire', got '%s'", config.Simulation.Scenario)
	}
	if config.Simulation.TickRate != 50*time.Millisecond {
		t.Errorf("expected TickRate 50ms, got %v", config.Simulation.TickRate)
	}
	if config.Physics.MinTempDelta != 1.5 {
		t.Errorf("expected min_temp_delta 1.5, got %f", config.Physics.MinTempDelta)
	}
	if config.Blob.S3.Bucket != "snapshots" {
		t.Errorf("expected bucket expanded to 'snapshots', got '%s'", config.Blob.S3.Bucket)
	}
	if !config.Blob.S3.PathStyle {
		t.Error("expected path_style to be true")
	}
	// Unset keys keep their defaults.
	if config.Stream.Interval != 4 {
		t.Errorf("expected default stream interval 4, got %d", config.Stream.Interval)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("simulation: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadExplicitMissingPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for an explicit missing path")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ATMOS_WIDTH", "12")
	t.Setenv("ATMOS_SEED", "77")
	t.Setenv("ATMOS_TICK_RATE", "250ms")
	t.Setenv("ATMOS_SCENARIO", "PIPES")
	t.Setenv("ATMOS_LOG_LEVEL", "DEBUG")
	t.Setenv("ATMOS_BLOB_DRIVER", "memory")
	t.Setenv("ATMOS_STREAM_ADDR", "127.0.0.1:9000")
	t.Setenv("ATMOS_WORKERS", "not-a-number")

	config := Default()
	applyEnvOverrides(config)

	if config.Simulation.Width != 12 {
		t.Errorf("expected width 12, got %d", config.Simulation.Width)
	}
	if config.Simulation.Seed != 77 {
		t.Errorf("expected seed 77, got %d", config.Simulation.Seed)
	}
	if config.Simulation.TickRate != 250*time.Millisecond {
		t.Errorf("expected tick rate 250ms, got %v", config.Simulation.TickRate)
	}
	if config.Simulation.Scenario != "pipes" {
		t.Errorf("expected scenario 'pipes', got '%s'", config.Simulation.Scenario)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got '%s'", config.Logging.Level)
	}
	if config.Blob.Driver != "memory" {
		t.Errorf("expected driver 'memory', got '%s'", config.Blob.Driver)
	}
	if config.Stream.Addr != "127.0.0.1:9000" {
		t.Errorf("expected stream addr override, got '%s'", config.Stream.Addr)
	}
	if config.Simulation.Workers != 4 {
		t.Errorf("unparsable workers should keep the default, got %d", config.Simulation.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Simulation.Width = 0 }, "simulation size"},
		{"no workers", func(c *Config) { c.Simulation.Workers = 0 }, "workers"},
		{"negative tick rate", func(c *Config) { c.Simulation.TickRate = -time.Second }, "tick_rate"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad driver", func(c *Config) { c.Blob.Driver = "ftp" }, "invalid blob driver"},
		{"s3 without bucket", func(c *Config) { c.Blob.Driver = "s3" }, "bucket"},
		{"negative physics", func(c *Config) { c.Physics.MinTempDelta = -1 }, "min_temp_delta"},
		{"inverted thresholds", func(c *Config) {
			c.Physics.MinTempStartSuperconduction = 300
			c.Physics.MinTempForSuperconduction = 400
		}, "exceeds"},
		{"zero interval", func(c *Config) { c.Stream.Interval = 0 }, "stream.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
