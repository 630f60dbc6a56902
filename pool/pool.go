// Package pool provides the pluggable worker pool the Planner submits
// per-system tasks to: a bounded set of goroutines draining a buffered
// channel of work items.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs submitted tasks on a bounded set of workers.
type Pool interface {
	// Submit enqueues fn to run on a worker goroutine. Submit may block if
	// the pool's internal queue is full.
	Submit(fn func())
	// Close stops accepting new work and waits for in-flight tasks to
	// finish.
	Close()
}

// FixedPool is the default Pool: a fixed number of worker goroutines,
// managed with golang.org/x/sync/errgroup for coordinated shutdown.
type FixedPool struct {
	tasks  chan func()
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New returns a FixedPool with numWorkers goroutines. numWorkers <= 0 means
// runtime.NumCPU().
func New(numWorkers int) *FixedPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	p := &FixedPool{
		tasks:  make(chan func(), numWorkers*4),
		cancel: cancel,
		group:  group,
	}

	for i := 0; i < numWorkers; i++ {
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case fn, ok := <-p.tasks:
					if !ok {
						return nil
					}
					fn()
				}
			}
		})
	}

	return p
}

// Submit enqueues fn. Blocks if the internal queue is full.
func (p *FixedPool) Submit(fn func()) {
	p.tasks <- fn
}

// Close stops the workers and waits for them to drain. Safe to call once.
func (p *FixedPool) Close() {
	close(p.tasks)
	p.cancel()
	_ = p.group.Wait()
}
