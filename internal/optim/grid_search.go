package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/spikesim/internal/experiment"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

// Objective scores a run; lower is better.
type Objective func(r *sim.Result) float64

// MatchMetric scores a run by how far the named metric is from target.
func MatchMetric(name string, target float64) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return math.Abs(v - target)
	}
}

// GridSearch evaluates every combination of the candidate values of the
// named parameters.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Parallel   int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Outcome is the best point found and how many grid points were skipped for
// failing validation.
type Outcome struct {
	Params    map[string]float64
	Score     float64
	Evaluated int
	Skipped   int
}

// Search runs base at every grid point with the default metrics attached and
// returns the lowest scoring point. Ties keep the earliest point in grid
// order.
func (g *GridSearch) Search(ctx context.Context, base models.Params, objective Objective) (*Outcome, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("grid search: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var (
		points  []map[string]float64
		exps    []*experiment.Experiment
		skipped int
	)
	for _, point := range g.points() {
		p := models.Clone(base)
		for name, v := range point {
			if err := models.Set(p, name, v); err != nil {
				return nil, err
			}
		}
		exp, err := experiment.New(p)
		if errors.Is(err, sim.ErrInvalidParameters) {
			skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		exp.Setup(experiment.DefaultMetrics(p)...)
		points = append(points, point)
		exps = append(exps, exp)
	}
	if len(exps) == 0 {
		return nil, fmt.Errorf("grid search: no valid grid points (%d skipped)", skipped)
	}

	limit := g.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	results, err := sim.Sweep(ctx, len(exps), limit, func(i int) (*sim.Result, error) {
		return exps[i].Run()
	})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Score: math.Inf(1), Evaluated: len(results), Skipped: skipped}
	for i, r := range results {
		if score := objective(r); score < out.Score {
			out.Score = score
			out.Params = points[i]
		}
	}
	return out, nil
}

// points enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) points() []map[string]float64 {
	var out []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.searchRecursive(depth+1, current, out)
	}
	delete(current, paramName)
}
