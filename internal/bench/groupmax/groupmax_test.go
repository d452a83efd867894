package groupmax

import (
	"context"
	"testing"
	"time"

	"github.com/colbench/colbench/internal/colgen"
	"github.com/colbench/colbench/internal/column"
	"github.com/colbench/colbench/internal/harness"
)

func TestRegistered(t *testing.T) {
	b, ok := harness.Lookup("groupby_max")
	if !ok {
		t.Fatal("groupby_max not registered at init")
	}
	if b.Name() != "groupby_max" {
		t.Errorf("unexpected name %q", b.Name())
	}
}

func TestKeyAndValueColumnsIndependent(t *testing.T) {
	const rows = 4096

	keys, err := colgen.Generate(nil, keyProfile(), rows)
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	values, err := colgen.Generate(nil, valueProfile(column.Int32, 0), rows)
	if err != nil {
		t.Fatalf("generate values: %v", err)
	}

	// Keys span [0,100] and values [0,1000]: a shared random sequence
	// would put every value within rounding distance of 10x its key.
	// Independent draws land in that window about 1% of the time.
	aligned := 0
	for i, k := range keys.Int32s() {
		if d := values.Int32s()[i] - 10*k; d >= -5 && d <= 5 {
			aligned++
		}
	}
	if aligned > rows/10 {
		t.Fatalf("value column tracks the key column: %d of %d rows within the scaled window",
			aligned, rows)
	}
}

func TestRun_CoversAllAxes(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full axis product")
	}

	// A fresh definition avoids touching the registered instance.
	b := NewBenchmark()
	r := &harness.Runner{Policy: harness.MeasurePolicy{
		WarmupTime:    0,
		MeasureTime:   0,
		MinIterations: 1,
		MaxIterations: 1,
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	reports := r.Run(ctx, b)

	// 4 element types x 3 row counts x 3 null probabilities.
	if len(reports) != 36 {
		t.Fatalf("expected 36 combinations, got %d", len(reports))
	}

	for i := range reports {
		rep := &reports[i]
		if rep.Failed() {
			t.Errorf("%s failed: %v", rep.Label(), rep.Err)
			continue
		}
		if rep.Stats.Count < 1 {
			t.Errorf("%s recorded no iterations", rep.Label())
		}

		rows := rep.Int64Params["num_rows"]
		nullProb := rep.Float64Params["null_probability"]
		var width int64 = 4
		if rep.ElementType == "int64" || rep.ElementType == "float64" {
			width = 8
		}

		// Keys: int32, no validity, counted once per replicated position.
		wantReads := rows * 4 * keyReplication
		// Values: element width plus a validity term only when nulls are
		// requested.
		wantReads += rows * width
		if nullProb > 0 {
			wantReads += (rows + 7) / 8
		}
		if rep.ReadBytes != wantReads {
			t.Errorf("%s: expected %d read bytes, got %d", rep.Label(), wantReads, rep.ReadBytes)
		}

		if rep.WriteBytes <= 0 {
			t.Errorf("%s: expected positive write bytes", rep.Label())
		}
		// Output shape: at most 101 groups of 3 int32 keys plus one
		// aggregate column per group.
		maxWrite := int64(101) * (3*4 + width + 1)
		if rep.WriteBytes > maxWrite {
			t.Errorf("%s: write bytes %d exceed the 101-group bound %d",
				rep.Label(), rep.WriteBytes, maxWrite)
		}
	}
}

func TestRun_SingleCombination(t *testing.T) {
	// Exercise one small combination directly for quick feedback.
	b := harness.New("groupby_max_probe", func(s *harness.State) error {
		return run(s)
	}).
		SetTypeAxis([]column.Kind{column.Float32}).
		AddInt64Axis("num_rows", []int64{4096}).
		AddFloat64Axis("null_probability", []float64{0})

	r := &harness.Runner{Policy: harness.MeasurePolicy{
		MinIterations: 1,
		MaxIterations: 2,
	}}
	reports := r.Run(context.Background(), b)
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Failed() {
		t.Fatalf("combination failed: %v", reports[0].Err)
	}
	if want := int64(4096*4*3 + 4096*4); reports[0].ReadBytes != want {
		t.Errorf("expected %d read bytes, got %d", want, reports[0].ReadBytes)
	}
}
