/*
PURPOSE:
  Defines the configuration structure and loading logic for lexbench.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Select a question-bank location, optional archetype filter and output path.
  - Exit status follows a pass-rate threshold (default 0.7).

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Abstention phrases differ per language; make them configurable.
  - The system under test is either the built-in mock or an HTTP service.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default config files fall back to defaults.
  - Validate() reports the first out-of-range field.
  - The type filter must name a known archetype.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (e.g., 30s timeout).

USAGE:
  cfg, err := config.Load("lexbench.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go
  - internal/cli/run.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daryltucker/lexbench/internal/scoring"
)

// System kinds.
const (
	SystemMock = "mock"
	SystemHTTP = "http"
)

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"lexbench.yaml", "lexbench.yml"}

// Config represents the full configuration for lexbench.
type Config struct {
	// BenchDir contains the questions/ directory.
	BenchDir string `yaml:"bench_dir"`

	// Type restricts the run to one archetype's bank file (empty = all).
	Type string `yaml:"type"`

	Output      string `yaml:"output"`
	CSVFile     string `yaml:"csv_file"`
	MetricsFile string `yaml:"metrics_file"`
	HistoryDB   string `yaml:"history_db"`

	// PassThreshold is the minimum aggregate pass rate for a zero exit status.
	PassThreshold float64 `yaml:"pass_threshold"`

	Parallel          int          `yaml:"parallel"`
	AbstentionMarkers []string     `yaml:"abstention_markers"`
	System            SystemConfig `yaml:"system"`
}

// SystemConfig selects and tunes the system under test.
type SystemConfig struct {
	Kind       string            `yaml:"kind"`
	URL        string            `yaml:"url"`
	Headers    map[string]string `yaml:"headers"`
	Timeout    time.Duration     `yaml:"timeout"`
	MaxRetries int               `yaml:"max_retries"`
	RetryDelay time.Duration     `yaml:"retry_delay"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BenchDir:          ".",
		Output:            "benchmark_results.json",
		PassThreshold:     0.7,
		Parallel:          1,
		AbstentionMarkers: append([]string(nil), scoring.DefaultAbstentionMarkers...),
		System: SystemConfig{
			Kind:       SystemMock,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RetryDelay: 2 * time.Second,
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every field is within range.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	if c.PassThreshold < 0 || c.PassThreshold > 1 {
		return fmt.Errorf("pass_threshold must be within [0,1], got %v", c.PassThreshold)
	}
	if err := CheckType(c.Type); err != nil {
		return err
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	switch c.System.Kind {
	case SystemMock:
	case SystemHTTP:
		if c.System.URL == "" {
			return errors.New("system.url is required for the http system")
		}
	default:
		return fmt.Errorf("unknown system kind %q (want %s or %s)", c.System.Kind, SystemMock, SystemHTTP)
	}
	return nil
}

// CheckType rejects a type filter that names no known archetype. The filter
// becomes a file name, so anything else could reach outside questions/.
func CheckType(kind string) error {
	if kind == "" || scoring.ParseArchetype(kind) != scoring.Unrecognized {
		return nil
	}
	return fmt.Errorf("unknown question type %q (want %s, %s or %s)",
		kind, scoring.FactExact, scoring.EvidenceSet, scoring.ConflictGap)
}
