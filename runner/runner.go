// Package runner provides execution contexts for report writes.
//
// A Writer never spawns goroutines of its own; every storage call it makes is
// driven through the Runner it was constructed with. Inline runs the call on
// the caller's goroutine, Pool bounds how many calls may be in flight at once
// across all callers sharing it.
package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

var (
	_ s3types.Runner = Inline{}
	_ s3types.Runner = (*Pool)(nil)
)

// Inline runs each operation directly on the calling goroutine.
type Inline struct{}

// Run executes op with ctx.
func (Inline) Run(ctx context.Context, op func(context.Context) error) error {
	return op(ctx)
}

// Pool limits the number of operations running concurrently.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// NewPool creates a pool that admits at most size concurrent operations.
// A size below one is treated as one.
func NewPool(size int64) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(size),
		size: size,
	}
}

// Size returns the concurrency limit of the pool.
func (p *Pool) Size() int64 {
	return p.size
}

// Run waits for a free slot, then executes op on the calling goroutine.
// If ctx is done before a slot frees up, op is not run.
func (p *Pool) Run(ctx context.Context, op func(context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire runner slot: %w", err)
	}
	defer p.sem.Release(1)

	return op(ctx)
}
