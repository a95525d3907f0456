package experiment

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

// SweepPoint is the outcome of one run of a sweep.
type SweepPoint struct {
	Value  float64
	Result *sim.Result
}

// Sweep runs base once per value with field set to that value. Runs execute
// concurrently on at most limit goroutines (runtime.NumCPU() when limit <= 0)
// and every run carries the default metrics. All parameter sets are validated
// before any run starts.
func Sweep(ctx context.Context, base models.Params, field string, values []float64, limit int) ([]SweepPoint, error) {
	if base == nil {
		return nil, &sim.ParamError{Field: "params", Reason: "missing"}
	}

	exps := make([]*Experiment, len(values))
	for i, v := range values {
		p := models.Clone(base)
		if err := models.Set(p, field, v); err != nil {
			return nil, err
		}
		exp, err := New(p)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", field, v, err)
		}
		exp.Setup(DefaultMetrics(p)...)
		exps[i] = exp
	}

	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results, err := sim.Sweep(ctx, len(exps), limit, func(i int) (*sim.Result, error) {
		return exps[i].Run()
	})
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(values))
	for i, v := range values {
		points[i] = SweepPoint{Value: v, Result: results[i]}
	}
	return points, nil
}

// Range returns n evenly spaced values from start to stop inclusive.
func Range(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
