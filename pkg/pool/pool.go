// Package pool fans out independent verification work across goroutines. A
// federation member verifying a batch of transactions, or a transaction
// engine reconstructing every input's and output's proof commitments, gains
// nothing from doing so serially -- each item's checks touch none of the
// others' state until the final challenge comparison.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run executes fn once per index in [0, n) concurrently, capped at limit
// simultaneous goroutines (0 means unlimited), and returns the first error
// encountered, cancelling the rest via ctx (spec §5: "Concurrency Model").
func Run(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(ctx, i)
		})
	}
	return g.Wait()
}

// Map runs fn once per input element concurrently and collects the results
// in input order, short-circuiting on the first error.
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	err := Run(ctx, len(items), limit, func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
