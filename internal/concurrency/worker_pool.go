package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ChunkFn processes the half-open index range [lo, hi).
type ChunkFn func(ctx context.Context, lo, hi int) error

// ForEachChunk splits n items into chunks of chunkSize and runs fn on them
// with at most workers goroutines. The first error cancels the remaining
// chunks and is returned.
func ForEachChunk(ctx context.Context, n, chunkSize, workers int, fn ChunkFn) error {
	if n <= 0 {
		return nil
	}
	if chunkSize <= 0 || chunkSize > n {
		chunkSize = n
	}
	if chunkSize == n {
		// single chunk, no goroutines needed
		return fn(ctx, 0, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for lo := 0; lo < n; lo += chunkSize {
		hi := min(lo+chunkSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, lo, hi)
		})
	}
	return g.Wait()
}
