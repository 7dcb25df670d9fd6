// Package pool runs a fixed-size worker pool over an indexed work list.
// Workers claim the next pending index from a shared atomic cursor and run
// each item to completion before claiming another; they never block on each
// other.
package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Run executes fn for every index in [0, n) across the given number of
// workers and blocks until all items finish or the context is canceled.
// A panic inside fn is confined to its item: the worker logs it and moves
// on, so one bad entry never takes down the pool.
func Run(ctx context.Context, workers, n int, logger *zap.Logger, fn func(ctx context.Context, index int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				index := int(cursor.Add(1)) - 1
				if index >= n {
					return
				}
				runOne(ctx, index, logger, fn)
			}
		}()
	}
	wg.Wait()
}

func runOne(ctx context.Context, index int, logger *zap.Logger, fn func(ctx context.Context, index int)) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("worker recovered from panic",
				zap.Int("index", index),
				zap.Any("panic", rec),
			)
		}
	}()
	fn(ctx, index)
}
