package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/colbench/colbench/internal/harness"
)

func sampleRecord(runID, bench string) Record {
	return Record{
		RunID:         runID,
		Benchmark:     bench,
		ElementType:   "float32",
		Int64Params:   map[string]int64{"num_rows": 4096},
		Float64Params: map[string]float64{"null_probability": 0.1},
		Status:        StatusOK,
		Iterations:    10,
		TotalNanos:    1000000,
		MeanNanos:     100000,
		MinNanos:      90000,
		MaxNanos:      120000,
		StdDevNanos:   5000,
		ReadBytes:     65536,
		WriteBytes:    1024,
		BandwidthGBps: 0.66,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestStore_InsertAndListRun(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	want := []Record{
		sampleRecord("run-1", "groupby_max"),
		sampleRecord("run-1", "groupby_max"),
		sampleRecord("run-2", "groupby_max"),
	}
	want[1].ElementType = "int64"
	want[1].Status = StatusFailed
	want[1].Error = "engine failed"

	for _, rec := range want {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := store.ListRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("list run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for run-1, got %d", len(got))
	}

	if got[0].Benchmark != "groupby_max" || got[0].ElementType != "float32" {
		t.Errorf("first record mismatch: %+v", got[0])
	}
	if got[0].Int64Params["num_rows"] != 4096 {
		t.Errorf("int64 params lost: %+v", got[0].Int64Params)
	}
	if got[0].Float64Params["null_probability"] != 0.1 {
		t.Errorf("float64 params lost: %+v", got[0].Float64Params)
	}
	if got[0].ReadBytes != 65536 || got[0].Iterations != 10 {
		t.Errorf("measurement fields lost: %+v", got[0])
	}
	if got[1].Status != StatusFailed || got[1].Error != "engine failed" {
		t.Errorf("failure fields lost: %+v", got[1])
	}

	other, err := store.ListRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("list run-2: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("expected 1 record for run-2, got %d", len(other))
	}

	empty, err := store.ListRun(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("list missing run: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no records, got %d", len(empty))
	}
}

func TestArtifact_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", ArtifactName)
	want := []Record{
		sampleRecord("run-1", "groupby_max"),
		sampleRecord("run-1", "groupby_max"),
	}

	if err := WriteArtifact(path, want); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	got, err := ReadArtifact(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].RunID != want[i].RunID || got[i].Benchmark != want[i].Benchmark {
			t.Errorf("record %d identity mismatch: %+v", i, got[i])
		}
		if got[i].MeanNanos != want[i].MeanNanos || got[i].ReadBytes != want[i].ReadBytes {
			t.Errorf("record %d measurement mismatch: %+v", i, got[i])
		}
	}
}

func TestReadArtifact_Missing(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "missing.json.sz"))
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestFromReport_StatusMapping(t *testing.T) {
	ok := harness.Report{
		Benchmark:   "groupby_max",
		ElementType: "int32",
		Int64Params: map[string]int64{"num_rows": 4096},
		Stats: harness.StatsSnapshot{
			Count: 5,
			Total: 500 * time.Microsecond,
			Mean:  100 * time.Microsecond,
			Min:   80 * time.Microsecond,
			Max:   130 * time.Microsecond,
		},
		ReadBytes:  1 << 20,
		WriteBytes: 1 << 10,
	}

	rec := FromReport("run-1", &ok)
	if rec.Status != StatusOK || rec.Error != "" {
		t.Errorf("successful report mapped wrong: %+v", rec)
	}
	if rec.Iterations != 5 || rec.MeanNanos != 100000 {
		t.Errorf("stats mapped wrong: %+v", rec)
	}
	if rec.BandwidthGBps <= 0 {
		t.Error("expected positive bandwidth")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	failed := ok
	failed.Err = errors.New("boom")
	rec = FromReport("run-1", &failed)
	if rec.Status != StatusFailed || rec.Error != "boom" {
		t.Errorf("failed report mapped wrong: %+v", rec)
	}
}
