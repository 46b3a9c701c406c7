// Package config provides unified configuration loading for the atmos tools.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read by Load when no explicit path is given and the file
// exists in the working directory.
const DefaultPath = "atmos.yaml"

// Config contains all atmos configuration settings.
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Physics overrides the engine thresholds. Zero values keep the defaults.
	Physics PhysicsConfig `json:"physics" yaml:"physics"`

	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Checkpoint CheckpointConfig `json:"checkpoint" yaml:"checkpoint"`
	Blob       BlobConfig       `json:"blob" yaml:"blob"`
	Stream     StreamConfig     `json:"stream" yaml:"stream"`
}

// SimulationConfig selects the scenario and how it is driven.
type SimulationConfig struct {
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	Seed     int64  `json:"seed" yaml:"seed"`
	Scenario string `json:"scenario" yaml:"scenario"`

	// TickRate is the interval between ticks; 0 runs as fast as possible.
	TickRate  time.Duration `json:"tick_rate" yaml:"tick_rate"`
	Workers   int           `json:"workers" yaml:"workers"`
	ChunkSize int           `json:"chunk_size" yaml:"chunk_size"`
	Reactions bool          `json:"reactions" yaml:"reactions"`
}

// PhysicsConfig mirrors the tunable engine thresholds.
type PhysicsConfig struct {
	MinPressureDifference       float64 `json:"min_pressure_difference,omitempty" yaml:"min_pressure_difference,omitempty"`
	MinimumHeatCapacity         float64 `json:"minimum_heat_capacity,omitempty" yaml:"minimum_heat_capacity,omitempty"`
	SpaceTemperature            float64 `json:"space_temperature,omitempty" yaml:"space_temperature,omitempty"`
	SpaceHeatCapacity           float64 `json:"space_heat_capacity,omitempty" yaml:"space_heat_capacity,omitempty"`
	MinTempStartSuperconduction float64 `json:"min_temp_start_superconduction,omitempty" yaml:"min_temp_start_superconduction,omitempty"`
	MinTempForSuperconduction   float64 `json:"min_temp_for_superconduction,omitempty" yaml:"min_temp_for_superconduction,omitempty"`
	MinTempDelta                float64 `json:"min_temp_delta,omitempty" yaml:"min_temp_delta,omitempty"`
	MCellWithRatio              float64 `json:"mcell_with_ratio,omitempty" yaml:"mcell_with_ratio,omitempty"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "error", "warn", "info" (default),
	// "debug" or "trace". "debug" also writes ticks.jsonl under Dir.
	Level string `json:"level" yaml:"level"`
	Dir   string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// CheckpointConfig configures periodic checkpoints.
type CheckpointConfig struct {
	// Path is the SQLite database file. Empty disables persistence.
	Path string `json:"path" yaml:"path"`
	// Every is the number of ticks between checkpoints; 0 only saves on exit.
	Every int `json:"every" yaml:"every"`
}

// BlobConfig selects where exported checkpoints go.
type BlobConfig struct {
	// Driver is "fs", "memory" or "s3".
	Driver string   `json:"driver" yaml:"driver"`
	Root   string   `json:"root,omitempty" yaml:"root,omitempty"`
	S3     S3Config `json:"s3" yaml:"s3"`
}

// S3Config configures the S3 blob driver.
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	PathStyle bool   `json:"path_style" yaml:"path_style"`
}

// StreamConfig configures the websocket frame stream.
type StreamConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	// Interval is the number of ticks between broadcast frames.
	Interval int `json:"interval" yaml:"interval"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Width:     96,
			Height:    64,
			Seed:      1337,
			Scenario:  "breach",
			TickRate:  100 * time.Millisecond,
			Workers:   4,
			ChunkSize: 256,
			Reactions: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Checkpoint: CheckpointConfig{
			Path:  "atmos.db",
			Every: 0,
		},
		Blob: BlobConfig{
			Driver: "fs",
			Root:   "exports",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Stream: StreamConfig{
			Addr:     ":8080",
			Interval: 4,
		},
	}
}

// Load loads configuration and applies environment variables.
// Order: defaults -> path (or ./atmos.yaml when present) -> environment variables
func Load(path string) (*Config, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		fileConfig, loadErr := LoadFromFile(path)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	} else if explicit {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Blob.S3.Bucket = expandEnvVars(config.Blob.S3.Bucket)
	config.Blob.S3.Endpoint = expandEnvVars(config.Blob.S3.Endpoint)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	sim := c.Simulation
	if sim.Width <= 0 || sim.Height <= 0 {
		errs = append(errs, fmt.Errorf("simulation size must be positive, got %dx%d", sim.Width, sim.Height))
	}
	if sim.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", sim.Workers))
	}
	if sim.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", sim.ChunkSize))
	}
	if sim.TickRate < 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be non-negative, got %v", sim.TickRate))
	}

	p := c.Physics
	if p.MinTempStartSuperconduction != 0 && p.MinTempForSuperconduction > p.MinTempStartSuperconduction {
		errs = append(errs, fmt.Errorf("min_temp_for_superconduction %.2f exceeds min_temp_start_superconduction %.2f",
			p.MinTempForSuperconduction, p.MinTempStartSuperconduction))
	}
	for name, v := range map[string]float64{
		"min_pressure_difference": p.MinPressureDifference,
		"minimum_heat_capacity":   p.MinimumHeatCapacity,
		"space_temperature":       p.SpaceTemperature,
		"space_heat_capacity":     p.SpaceHeatCapacity,
		"min_temp_delta":          p.MinTempDelta,
		"mcell_with_ratio":        p.MCellWithRatio,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative, got %f", name, v))
		}
	}

	validLevels := map[string]bool{"error": true, "warn": true, "info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug, trace, or empty for default)", c.Logging.Level))
	}

	if c.Checkpoint.Every < 0 {
		errs = append(errs, fmt.Errorf("checkpoint.every must be non-negative, got %d", c.Checkpoint.Every))
	}

	switch c.Blob.Driver {
	case "", "fs", "memory":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid blob driver: %s (valid: fs, memory, s3)", c.Blob.Driver))
	}

	if c.Stream.Interval <= 0 {
		errs = append(errs, fmt.Errorf("stream.interval must be positive, got %d", c.Stream.Interval))
	}

	return errors.Join(errs...)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ATMOS_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Width = n
		}
	}
	if v := os.Getenv("ATMOS_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Height = n
		}
	}
	if v := os.Getenv("ATMOS_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}
	if v := os.Getenv("ATMOS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Workers = n
		}
	}
	if v := os.Getenv("ATMOS_TICK_RATE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Simulation.TickRate = d
		}
	}
	if v := os.Getenv("ATMOS_SCENARIO"); v != "" {
		config.Simulation.Scenario = strings.ToLower(v)
	}
	if v := os.Getenv("ATMOS_REACTIONS"); v != "" {
		config.Simulation.Reactions = v == "true" || v == "1"
	}

	if v := os.Getenv("ATMOS_LOG_LEVEL"); v != "" {
		config.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv("ATMOS_CHECKPOINT_PATH"); v != "" {
		config.Checkpoint.Path = v
	}

	if v := os.Getenv("ATMOS_BLOB_DRIVER"); v != "" {
		config.Blob.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("ATMOS_BLOB_ROOT"); v != "" {
		config.Blob.Root = v
	}
	if v := os.Getenv("ATMOS_BLOB_S3_BUCKET"); v != "" {
		config.Blob.S3.Bucket = v
	}
	if v := os.Getenv("ATMOS_BLOB_S3_REGION"); v != "" {
		config.Blob.S3.Region = v
	}
	if v := os.Getenv("ATMOS_BLOB_S3_ENDPOINT"); v != "" {
		config.Blob.S3.Endpoint = v
	}

	if v := os.Getenv("ATMOS_STREAM_ADDR"); v != "" {
		config.Stream.Addr = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
