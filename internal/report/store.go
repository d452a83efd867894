package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	verrors "github.com/colbench/colbench/internal/errors"
)

// Store persists benchmark records in a SQLite database so runs can be
// compared over time.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the results database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, verrors.NewResultsError(verrors.CodeStoreFailed, "failed to open results database", err)
	}
	// Benchmark runs write serially.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS benchmark_results (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id         TEXT NOT NULL,
		benchmark      TEXT NOT NULL,
		element_type   TEXT NOT NULL DEFAULT '',
		params         TEXT NOT NULL DEFAULT '{}',
		status         TEXT NOT NULL,
		error          TEXT NOT NULL DEFAULT '',
		iterations     INTEGER NOT NULL DEFAULT 0,
		total_ns       INTEGER NOT NULL DEFAULT 0,
		mean_ns        INTEGER NOT NULL DEFAULT 0,
		min_ns         INTEGER NOT NULL DEFAULT 0,
		max_ns         INTEGER NOT NULL DEFAULT 0,
		stddev_ns      INTEGER NOT NULL DEFAULT 0,
		read_bytes     INTEGER NOT NULL DEFAULT 0,
		write_bytes    INTEGER NOT NULL DEFAULT 0,
		bandwidth_gbps REAL    NOT NULL DEFAULT 0,
		created_at     TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_run ON benchmark_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_benchmark ON benchmark_results(benchmark, created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return verrors.NewResultsError(verrors.CodeStoreFailed, "failed to initialize results schema", err)
	}
	return nil
}

// storedParams is the JSON shape of the params column.
type storedParams struct {
	Int64s   map[string]int64   `json:"int64s,omitempty"`
	Float64s map[string]float64 `json:"float64s,omitempty"`
}

// Insert appends one record.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	params, err := json.Marshal(storedParams{
		Int64s:   rec.Int64Params,
		Float64s: rec.Float64Params,
	})
	if err != nil {
		return verrors.NewResultsError(verrors.CodeStoreFailed, "failed to encode params", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO benchmark_results (
			run_id, benchmark, element_type, params, status, error,
			iterations, total_ns, mean_ns, min_ns, max_ns, stddev_ns,
			read_bytes, write_bytes, bandwidth_gbps, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Benchmark, rec.ElementType, string(params), rec.Status, rec.Error,
		rec.Iterations, rec.TotalNanos, rec.MeanNanos, rec.MinNanos, rec.MaxNanos, rec.StdDevNanos,
		rec.ReadBytes, rec.WriteBytes, rec.BandwidthGBps, rec.CreatedAt,
	)
	if err != nil {
		return verrors.NewResultsError(verrors.CodeStoreFailed, "failed to insert record", err)
	}
	return nil
}

// ListRun returns all records of a run in insertion order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, benchmark, element_type, params, status, error,
		       iterations, total_ns, mean_ns, min_ns, max_ns, stddev_ns,
		       read_bytes, write_bytes, bandwidth_gbps, created_at
		FROM benchmark_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, verrors.NewResultsError(verrors.CodeStoreFailed, "failed to query records", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var params string
		var createdAt time.Time
		if err := rows.Scan(
			&rec.RunID, &rec.Benchmark, &rec.ElementType, &params, &rec.Status, &rec.Error,
			&rec.Iterations, &rec.TotalNanos, &rec.MeanNanos, &rec.MinNanos, &rec.MaxNanos, &rec.StdDevNanos,
			&rec.ReadBytes, &rec.WriteBytes, &rec.BandwidthGBps, &createdAt,
		); err != nil {
			return nil, verrors.NewResultsError(verrors.CodeStoreFailed, "failed to scan record", err)
		}
		var sp storedParams
		if err := json.Unmarshal([]byte(params), &sp); err != nil {
			return nil, verrors.NewResultsError(verrors.CodeStoreFailed, "failed to decode params", err)
		}
		rec.Int64Params = sp.Int64s
		rec.Float64Params = sp.Float64s
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, verrors.NewResultsError(verrors.CodeStoreFailed, "failed to iterate records", err)
	}
	return records, nil
}

// Close closes the results database.
func (s *Store) Close() error {
	return s.db.Close()
}
