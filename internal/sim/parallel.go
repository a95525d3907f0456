package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sweep runs n independent simulations concurrently, at most limit at a time
// (limit <= 0 means unbounded). run(i) must build its own Simulator; results
// are returned in index order. The first error cancels runs not yet started.
func Sweep(ctx context.Context, n, limit int, run func(i int) (*Result, error)) ([]*Result, error) {
	results := make([]*Result, n)

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := run(i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
