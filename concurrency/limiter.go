package concurrency

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimiter 并发限制器
//
// Bounds how many CPU heavy jobs (decode, resize, encode) run at once.
// Waiting callers give up when their context is cancelled.
type ConcurrencyLimiter struct {
	maxConcurrent int64
	sem           *semaphore.Weighted
	inFlight      atomic.Int64
}

// NewConcurrencyLimiter 创建并发限制器
func NewConcurrencyLimiter(maxConcurrent int) *ConcurrencyLimiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ConcurrencyLimiter{
		maxConcurrent: int64(maxConcurrent),
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Execute runs fn once a slot is free.
func (cl *ConcurrencyLimiter) Execute(ctx context.Context, fn func() error) error {
	if err := cl.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	cl.inFlight.Add(1)
	defer func() {
		cl.inFlight.Add(-1)
		cl.sem.Release(1)
	}()
	return fn()
}

// InFlight reports the number of jobs currently holding a slot.
func (cl *ConcurrencyLimiter) InFlight() int {
	return int(cl.inFlight.Load())
}

// Capacity returns the configured maximum.
func (cl *ConcurrencyLimiter) Capacity() int {
	return int(cl.maxConcurrent)
}

// ForEach calls fn for every index in [0, n) using at most workers
// goroutines and returns the first error. The context passed to fn is
// cancelled as soon as one call fails.
func ForEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
