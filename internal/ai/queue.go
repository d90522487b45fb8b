package ai

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// callGate admits at most one in-flight provider call at a time. The
// provider's rate limits are account-wide, so uncontrolled concurrency only
// buys throttling errors. Blocked acquirers are served in FIFO order, and a
// failed call releases the gate like any other.
type callGate struct {
	sem *semaphore.Weighted
}

func newCallGate() *callGate {
	return &callGate{sem: semaphore.NewWeighted(1)}
}

func (g *callGate) do(ctx context.Context, fn func() error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)
	return fn()
}
