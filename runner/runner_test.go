package runner

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

func TestInline_Run(t *testing.T) {
	cause := errors.New("boom")

	var called bool
	err := Inline{}.Run(context.Background(), func(context.Context) error {
		called = true
		return cause
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, cause)
}

func TestNewPool_MinimumSize(t *testing.T) {
	assert.Equal(t, int64(1), NewPool(0).Size())
	assert.Equal(t, int64(1), NewPool(-3).Size())
	assert.Equal(t, int64(4), NewPool(4).Size())
}

func TestPool_LimitsConcurrency(t *testing.T) {
	const limit = 3
	pool := NewPool(limit)

	var (
		active  atomic.Int64
		maxSeen atomic.Int64
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Run(context.Background(), func(context.Context) error {
				n := active.Add(1)
				for {
					m := maxSeen.Load()
					if n <= m || maxSeen.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxSeen.Load(), int64(limit))
	assert.Positive(t, maxSeen.Load())
}

func TestPool_CancelledWhileWaiting(t *testing.T) {
	pool := NewPool(1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = pool.Run(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called bool
	err := pool.Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	close(release)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
