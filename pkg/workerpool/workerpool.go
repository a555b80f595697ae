// Package workerpool provides bounded concurrent processing utilities.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Process runs process for every item with at most workerCount concurrent calls.
// The index of the item is passed along so callers can write results into a pre-sized slice.
// The first error cancels the shared context and is returned once all running calls finish.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(ctx context.Context, idx int, item T) error,
) error {
	if workerCount < 1 {
		workerCount = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return process(gctx, i, item)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies fn to every item with bounded concurrency and returns the results in input order.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(ctx context.Context, item T) (R, error),
) ([]R, error) {
	out := make([]R, len(items))
	err := Process(ctx, workerCount, items, func(ctx context.Context, idx int, item T) error {
		r, err := fn(ctx, item)
		if err != nil {
			return err
		}
		out[idx] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
