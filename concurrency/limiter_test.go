package concurrency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrencyLimiterBoundsParallelism(t *testing.T) {
	limiter := NewConcurrencyLimiter(2)

	var current, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = limiter.Execute(context.Background(), func() error {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				current.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
	assert.Equal(t, 0, limiter.InFlight())
}

func TestConcurrencyLimiterHonoursCancellation(t *testing.T) {
	limiter := NewConcurrencyLimiter(1)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = limiter.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	called := false
	err := limiter.Execute(ctx, func() error { called = true; return nil })
	close(release)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestNewConcurrencyLimiterMinimum(t *testing.T) {
	assert.Equal(t, 1, NewConcurrencyLimiter(0).Capacity())
}

func TestForEach(t *testing.T) {
	out := make([]int, 5)
	err := ForEach(context.Background(), len(out), 2, func(_ context.Context, i int) error {
		out[i] = i * i
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16}, out)

	boom := errors.New("boom")
	err = ForEach(context.Background(), 3, 0, func(_ context.Context, i int) error {
		if i == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
