// Package main implements the colbench binary: it runs registered
// columnar micro-benchmarks across their parameter axes, logs the
// results, and persists them to the results store and artifact sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	_ "github.com/colbench/colbench/internal/bench/groupmax"
	"github.com/colbench/colbench/internal/config"
	"github.com/colbench/colbench/internal/harness"
	"github.com/colbench/colbench/internal/report"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		dataDir     string
		benchName   string
		storePath   string
		listBenches bool
		noPersist   bool
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for results and artifacts")
	flag.StringVar(&benchName, "bench", "", "Run only the named benchmark")
	flag.StringVar(&storePath, "store", "", "Path to the SQLite results database")
	flag.BoolVar(&listBenches, "list", false, "List registered benchmarks and exit")
	flag.BoolVar(&noPersist, "no-persist", false, "Skip the results store and artifact sink")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "colbench - Columnar Aggregation Micro-Benchmark Harness\n\n")
		fmt.Fprintf(os.Stderr, "Usage: colbench [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  colbench -list\n")
		fmt.Fprintf(os.Stderr, "  colbench -bench groupby_max\n")
		fmt.Fprintf(os.Stderr, "  colbench -config /etc/colbench/config.yaml\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  COLBENCH_DATA_DIR         Base directory for results\n")
		fmt.Fprintf(os.Stderr, "  COLBENCH_BENCH            Benchmark name filter\n")
		fmt.Fprintf(os.Stderr, "  COLBENCH_STORAGE_TYPE     Artifact storage type (local, s3)\n")
		fmt.Fprintf(os.Stderr, "  COLBENCH_S3_BUCKET        S3 bucket for artifacts\n")
		fmt.Fprintf(os.Stderr, "  COLBENCH_MEASURE_*        Measurement loop overrides\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("colbench version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}
	if listBenches {
		for _, name := range harness.List() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	// .env is optional; flags and environment win over it.
	_ = godotenv.Load(".env")

	cfg, err := loadConfig(configFile, dataDir, benchName, storePath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(context.Background(), cfg, noPersist); err != nil {
		log.Fatalf("Benchmark run failed: %v", err)
	}
}

// loadConfig loads configuration from file, environment, and flags.
func loadConfig(configFile, dataDir, benchName, storePath string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	// Flags override file and environment.
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if benchName != "" {
		cfg.Bench = benchName
	}
	if storePath != "" {
		cfg.Results.StorePath = storePath
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, noPersist bool) error {
	names := harness.List()
	if cfg.Bench != "" {
		if _, ok := harness.Lookup(cfg.Bench); !ok {
			return fmt.Errorf("unknown benchmark: %s (use -list)", cfg.Bench)
		}
		names = []string{cfg.Bench}
	}
	if len(names) == 0 {
		return fmt.Errorf("no benchmarks registered")
	}

	runner := harness.NewRunner()
	runner.Policy = harness.MeasurePolicy{
		WarmupTime:    cfg.Measure.WarmupTime,
		MeasureTime:   cfg.Measure.MeasureTime,
		MinIterations: cfg.Measure.MinIterations,
		MaxIterations: cfg.Measure.MaxIterations,
	}
	runner.Logger = log.New(os.Stdout, "", log.LstdFlags)

	runID := uuid.NewString()
	log.Printf("Starting run %s (%d benchmark(s))", runID, len(names))

	var reports []harness.Report
	for _, name := range names {
		b, _ := harness.Lookup(name)
		reports = append(reports, runner.Run(ctx, b)...)
	}

	failed := 0
	for i := range reports {
		if reports[i].Failed() {
			failed++
		}
	}
	log.Printf("Run %s complete: %d combination(s), %d failed", runID, len(reports), failed)

	if noPersist {
		return nil
	}
	return persist(ctx, cfg, runID, reports)
}

// persist writes records to the results store, dumps the run artifact,
// and ships it to the configured sink.
func persist(ctx context.Context, cfg *config.Config, runID string, reports []harness.Report) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	store, err := report.OpenStore(cfg.Results.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	records := make([]report.Record, 0, len(reports))
	for i := range reports {
		rec := report.FromReport(runID, &reports[i])
		if err := store.Insert(ctx, rec); err != nil {
			return err
		}
		records = append(records, rec)
	}

	artifactPath := filepath.Join(cfg.Results.ArtifactDir, runID, report.ArtifactName)
	if err := report.WriteArtifact(artifactPath, records); err != nil {
		return err
	}

	sink, err := report.NewSink(ctx, report.SinkOptions{
		Type:      cfg.Storage.Type,
		LocalPath: cfg.Storage.Path,
		Bucket:    cfg.Storage.S3.Bucket,
		Region:    cfg.Storage.S3.Region,
		Endpoint:  cfg.Storage.S3.Endpoint,
	}, runID)
	if err != nil {
		return err
	}
	if err := sink.Put(ctx, artifactPath, report.ArtifactName); err != nil {
		return err
	}

	log.Printf("Results stored in %s, artifact shipped to %s/%s",
		cfg.Results.StorePath, sink.Prefix(), report.ArtifactName)
	return nil
}
