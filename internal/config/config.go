// Package config provides unified configuration for the colbench runner.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colbench/colbench/internal/harness"
)

// Config holds the runner configuration.
type Config struct {
	// DataDir is the base directory for results and artifacts.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Bench filters which benchmarks run (empty = all registered).
	Bench string `json:"bench" yaml:"bench"`

	// Results configures result persistence.
	Results ResultsConfig `json:"results" yaml:"results"`

	// Storage configures the artifact destination.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Measure configures the warmup/measurement loop.
	Measure MeasureConfig `json:"measure" yaml:"measure"`
}

// ResultsConfig holds result persistence configuration.
type ResultsConfig struct {
	// StorePath is the path of the SQLite results database.
	StorePath string `json:"store_path" yaml:"store_path"`

	// ArtifactDir is the local directory for run artifacts.
	ArtifactDir string `json:"artifact_dir" yaml:"artifact_dir"`
}

// StorageConfig holds artifact storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type"`

	// Path is the local storage path (for local type)
	Path string `json:"path" yaml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	Bucket   string `json:"bucket" yaml:"bucket"`
	Region   string `json:"region" yaml:"region"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// MeasureConfig holds measurement loop configuration.
type MeasureConfig struct {
	// WarmupTime is the minimum warmup wall time per combination.
	WarmupTime time.Duration `json:"warmup_time" yaml:"warmup_time"`

	// MeasureTime is the minimum measured wall time per combination.
	MeasureTime time.Duration `json:"measure_time" yaml:"measure_time"`

	// MinIterations is the minimum number of measured iterations.
	MinIterations int `json:"min_iterations" yaml:"min_iterations"`

	// MaxIterations caps measured iterations regardless of time.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// DefaultConfig returns the default configuration for local runs. The
// measurement knobs come from the harness's own default policy so the
// two never drift apart.
func DefaultConfig() *Config {
	policy := harness.DefaultMeasurePolicy()
	return &Config{
		DataDir: "./data/colbench",
		Storage: StorageConfig{
			Type: "local",
		},
		Measure: MeasureConfig{
			WarmupTime:    policy.WarmupTime,
			MeasureTime:   policy.MeasureTime,
			MinIterations: policy.MinIterations,
			MaxIterations: policy.MaxIterations,
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/colbench"
	}
	if c.Results.StorePath == "" {
		c.Results.StorePath = filepath.Join(c.DataDir, "results.db")
	}
	if c.Results.ArtifactDir == "" {
		c.Results.ArtifactDir = filepath.Join(c.DataDir, "artifacts")
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.DataDir, "storage")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}
	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	if c.Measure.WarmupTime < 0 || c.Measure.MeasureTime < 0 {
		return fmt.Errorf("measure durations must not be negative")
	}
	if c.Measure.MinIterations < 1 {
		return fmt.Errorf("measure.min_iterations must be at least 1, got %d", c.Measure.MinIterations)
	}
	if c.Measure.MaxIterations > 0 && c.Measure.MaxIterations < c.Measure.MinIterations {
		return fmt.Errorf("measure.max_iterations %d is below min_iterations %d",
			c.Measure.MaxIterations, c.Measure.MinIterations)
	}

	return nil
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.Results.ArtifactDir,
	}
	if c.Storage.Type == "local" {
		dirs = append(dirs, c.Storage.Path)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the COLBENCH_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("COLBENCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("COLBENCH_BENCH"); v != "" {
		cfg.Bench = v
	}

	// Results configuration
	if v := os.Getenv("COLBENCH_RESULTS_STORE_PATH"); v != "" {
		cfg.Results.StorePath = v
	}
	if v := os.Getenv("COLBENCH_RESULTS_ARTIFACT_DIR"); v != "" {
		cfg.Results.ArtifactDir = v
	}

	// Storage configuration
	if v := os.Getenv("COLBENCH_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("COLBENCH_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("COLBENCH_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("COLBENCH_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("COLBENCH_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}

	// Measurement configuration
	if v := os.Getenv("COLBENCH_MEASURE_WARMUP_TIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Measure.WarmupTime = d
		}
	}
	if v := os.Getenv("COLBENCH_MEASURE_TIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Measure.MeasureTime = d
		}
	}
	if v := os.Getenv("COLBENCH_MEASURE_MIN_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Measure.MinIterations = n
		}
	}
	if v := os.Getenv("COLBENCH_MEASURE_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Measure.MaxIterations = n
		}
	}
}
