// Package report persists benchmark outcomes: per-combination records
// in a SQLite store plus compressed JSON artifacts shipped to object
// storage.
package report

import (
	"time"

	"github.com/colbench/colbench/internal/harness"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record is the persisted form of one parameter combination's outcome.
type Record struct {
	RunID         string             `json:"run_id"`
	Benchmark     string             `json:"benchmark"`
	ElementType   string             `json:"element_type,omitempty"`
	Int64Params   map[string]int64   `json:"int64_params,omitempty"`
	Float64Params map[string]float64 `json:"float64_params,omitempty"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	Iterations  int64 `json:"iterations"`
	TotalNanos  int64 `json:"total_ns"`
	MeanNanos   int64 `json:"mean_ns"`
	MinNanos    int64 `json:"min_ns"`
	MaxNanos    int64 `json:"max_ns"`
	StdDevNanos int64 `json:"stddev_ns"`

	ReadBytes     int64   `json:"read_bytes"`
	WriteBytes    int64   `json:"write_bytes"`
	BandwidthGBps float64 `json:"bandwidth_gbps"`

	CreatedAt time.Time `json:"created_at"`
}

// FromReport converts a harness report into a persistable record.
func FromReport(runID string, rep *harness.Report) Record {
	rec := Record{
		RunID:         runID,
		Benchmark:     rep.Benchmark,
		ElementType:   rep.ElementType,
		Int64Params:   rep.Int64Params,
		Float64Params: rep.Float64Params,
		Status:        StatusOK,
		Iterations:    rep.Stats.Count,
		TotalNanos:    rep.Stats.Total.Nanoseconds(),
		MeanNanos:     rep.Stats.Mean.Nanoseconds(),
		MinNanos:      rep.Stats.Min.Nanoseconds(),
		MaxNanos:      rep.Stats.Max.Nanoseconds(),
		StdDevNanos:   rep.Stats.StdDev.Nanoseconds(),
		ReadBytes:     rep.ReadBytes,
		WriteBytes:    rep.WriteBytes,
		BandwidthGBps: rep.Bandwidth() / 1e9,
		CreatedAt:     time.Now().UTC(),
	}
	if rep.Failed() {
		rec.Status = StatusFailed
		rec.Error = rep.Err.Error()
	}
	return rec
}
