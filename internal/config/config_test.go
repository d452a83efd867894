package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colbench/colbench/internal/harness"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Storage.Type != "local" {
		t.Errorf("expected local storage by default, got %s", cfg.Storage.Type)
	}
}

func TestDefaultConfig_MatchesHarnessPolicy(t *testing.T) {
	cfg := DefaultConfig()
	policy := harness.DefaultMeasurePolicy()

	if cfg.Measure.WarmupTime != policy.WarmupTime ||
		cfg.Measure.MeasureTime != policy.MeasureTime ||
		cfg.Measure.MinIterations != policy.MinIterations ||
		cfg.Measure.MaxIterations != policy.MaxIterations {
		t.Errorf("config defaults diverged from the harness policy: %+v vs %+v",
			cfg.Measure, policy)
	}
}

func TestResolve_DerivesPathsFromDataDir(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/colbench"}
	cfg.Resolve()

	if cfg.Results.StorePath != filepath.Join("/var/lib/colbench", "results.db") {
		t.Errorf("store path not derived: %s", cfg.Results.StorePath)
	}
	if cfg.Results.ArtifactDir != filepath.Join("/var/lib/colbench", "artifacts") {
		t.Errorf("artifact dir not derived: %s", cfg.Results.ArtifactDir)
	}
	if cfg.Storage.Path != filepath.Join("/var/lib/colbench", "storage") {
		t.Errorf("storage path not derived: %s", cfg.Storage.Path)
	}
}

func TestResolve_KeepsExplicitPaths(t *testing.T) {
	cfg := &Config{
		DataDir: "/data",
		Results: ResultsConfig{StorePath: "/elsewhere/results.db"},
	}
	cfg.Resolve()
	if cfg.Results.StorePath != "/elsewhere/results.db" {
		t.Errorf("explicit store path overridden: %s", cfg.Results.StorePath)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.Resolve()
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"unknown storage type", func(c *Config) { c.Storage.Type = "ftp" }},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3" }},
		{"negative warmup", func(c *Config) { c.Measure.WarmupTime = -time.Second }},
		{"zero min iterations", func(c *Config) { c.Measure.MinIterations = 0 }},
		{"max below min", func(c *Config) {
			c.Measure.MinIterations = 10
			c.Measure.MaxIterations = 5
		}},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}

	s3 := base()
	s3.Storage.Type = "s3"
	s3.Storage.S3.Bucket = "colbench-results"
	if err := s3.Validate(); err != nil {
		t.Errorf("s3 with bucket must validate: %v", err)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /tmp/colbench-test
bench: groupby_max
storage:
  type: s3
  s3:
    bucket: results-bucket
    region: us-west-2
measure:
  warmup_time: 50ms
  measure_time: 200ms
  min_iterations: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/colbench-test" || cfg.Bench != "groupby_max" {
		t.Errorf("top-level fields wrong: %+v", cfg)
	}
	if cfg.Storage.Type != "s3" || cfg.Storage.S3.Bucket != "results-bucket" {
		t.Errorf("storage fields wrong: %+v", cfg.Storage)
	}
	if cfg.Measure.WarmupTime != 50*time.Millisecond || cfg.Measure.MinIterations != 5 {
		t.Errorf("measure fields wrong: %+v", cfg.Measure)
	}
	// Unset fields keep their defaults.
	if cfg.Measure.MaxIterations != 1000 {
		t.Errorf("default max iterations lost: %d", cfg.Measure.MaxIterations)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"data_dir": "/tmp/colbench-json", "storage": {"type": "local"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/colbench-json" {
		t.Errorf("data dir wrong: %s", cfg.DataDir)
	}
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("COLBENCH_DATA_DIR", "/env/data")
	t.Setenv("COLBENCH_BENCH", "groupby_max")
	t.Setenv("COLBENCH_STORAGE_TYPE", "s3")
	t.Setenv("COLBENCH_S3_BUCKET", "env-bucket")
	t.Setenv("COLBENCH_MEASURE_WARMUP_TIME", "25ms")
	t.Setenv("COLBENCH_MEASURE_MIN_ITERATIONS", "7")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.DataDir != "/env/data" || cfg.Bench != "groupby_max" {
		t.Errorf("top-level env overrides lost: %+v", cfg)
	}
	if cfg.Storage.Type != "s3" || cfg.Storage.S3.Bucket != "env-bucket" {
		t.Errorf("storage env overrides lost: %+v", cfg.Storage)
	}
	if cfg.Measure.WarmupTime != 25*time.Millisecond || cfg.Measure.MinIterations != 7 {
		t.Errorf("measure env overrides lost: %+v", cfg.Measure)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{DataDir: filepath.Join(base, "data")}
	cfg.Storage.Type = "local"
	cfg.Resolve()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, dir := range []string{cfg.DataDir, cfg.Results.ArtifactDir, cfg.Storage.Path} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
}
