package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/spikesim/internal/experiment"
	"github.com/san-kum/spikesim/internal/optim"
	"github.com/spf13/cobra"
)

// parseGrid reads name=v1,v2,... or name=from:to:n.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))

	for _, spec := range specs {
		name, raw, ok := strings.Cut(spec, "=")
		if !ok || name == "" || raw == "" {
			return nil, nil, fmt.Errorf("grid %q: expected name=values", spec)
		}

		var values []float64
		if parts := strings.Split(raw, ":"); len(parts) == 3 {
			from, err1 := strconv.ParseFloat(parts[0], 64)
			to, err2 := strconv.ParseFloat(parts[1], 64)
			n, err3 := strconv.Atoi(parts[2])
			if err1 != nil || err2 != nil || err3 != nil || n <= 0 {
				return nil, nil, fmt.Errorf("grid %q: expected from:to:n", spec)
			}
			values = experiment.Range(from, to, n)
		} else {
			for _, field := range strings.Split(raw, ",") {
				v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
				if err != nil {
					return nil, nil, fmt.Errorf("grid %q: %w", spec, err)
				}
				values = append(values, v)
			}
		}

		names = append(names, name)
		ranges = append(ranges, values)
	}

	return names, ranges, nil
}

func searchGrid(cmd *cobra.Command, args []string) error {
	base, err := resolveParams(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}

	g := optim.NewGridSearch(names, ranges)
	g.Parallel = parallel

	start := time.Now()
	out, err := g.Search(context.Background(), base, optim.MatchMetric(metric, goal))
	if err != nil {
		return err
	}

	fmt.Printf("%d points in %v", out.Evaluated, time.Since(start))
	if out.Skipped > 0 {
		fmt.Printf(" (%d invalid skipped)", out.Skipped)
	}
	fmt.Println()

	keys := make([]string, 0, len(out.Params))
	for k := range out.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\nbest |%s - %g| = %g\n", metric, goal, out.Score)
	for _, k := range keys {
		fmt.Printf("  %s: %g\n", k, out.Params[k])
	}
	return nil
}
