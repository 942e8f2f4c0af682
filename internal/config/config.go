// Package config defines process configuration and its loading layers.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, optional YAML file, and CREWFIT_ env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"

	"github.com/halyard/crewfit/internal/domain/types"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount sets the number of Stage-1 scoring workers. Zero lets the
	// pool size itself from the CPU count.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory evaluation job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the duplicate-candidate cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBatches bounds how many scored batches the result store retains.
	MaxBatches int `koanf:"max_batches"`

	// ProfilePath points at an optional YAML job profile. Empty means the
	// built-in defaults.
	ProfilePath string `koanf:"profile_path"`

	// SortMode selects the ranking order: global_fit, prediction, or
	// global_fit_then_prediction.
	SortMode string `koanf:"sort_mode"`

	// OutputFormat selects report encoding: yaml or json.
	OutputFormat string `koanf:"output_format"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		WorkerCount:  0,
		QueueSize:    10_000,
		DedupeSize:   50_000,
		MaxBatches:   100,
		SortMode:     string(types.SortByGlobalFit),
		OutputFormat: "yaml",
	}
}

// Validate checks the loaded configuration for values no component accepts.
func (c *Config) Validate() error {
	switch types.SortMode(c.SortMode) {
	case types.SortByGlobalFit, types.SortByPrediction, types.SortByFitThenPred:
	default:
		return fmt.Errorf("%w: unknown sort_mode %q", ErrInvalidConfig, c.SortMode)
	}

	switch c.OutputFormat {
	case "yaml", "json":
	default:
		return fmt.Errorf("%w: unknown output_format %q", ErrInvalidConfig, c.OutputFormat)
	}

	if c.QueueSize < 0 || c.DedupeSize < 0 || c.MaxBatches < 0 || c.WorkerCount < 0 {
		return fmt.Errorf("%w: sizes must not be negative", ErrInvalidConfig)
	}
	return nil
}
