// Package pool arbitrates exclusive access to a fixed set of scorer
// resources. Scorers are expensive to construct and not safe for concurrent
// use, so many concurrent analysis tasks share a handful of them.
//
// The pool is a buffered channel pre-filled with the resources: Acquire is
// a blocking receive, Release a send. At most len(resources) holders exist
// at any instant, a released resource is immediately eligible for the next
// acquirer, and waiting burns no CPU.
package pool

import (
	"context"
	"errors"
	"sync"

	"github.com/hollyoak/canopy/internal/engine/scorer"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("pool: closed")

// Pool owns a fixed number of scorer resources. It is never resized;
// resources are provisioned once at construction and live until Close.
type Pool struct {
	resources chan scorer.Scorer
	size      int

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// New creates a Pool over the given resources. The pool takes ownership:
// Close releases every resource.
func New(resources []scorer.Scorer) *Pool {
	ch := make(chan scorer.Scorer, len(resources))
	for _, r := range resources {
		ch <- r
	}
	return &Pool{
		resources: ch,
		size:      len(resources),
		done:      make(chan struct{}),
	}
}

// Size returns the fixed number of resources in the pool.
func (p *Pool) Size() int {
	return p.size
}

// Acquire blocks until a resource is free, the context is cancelled, or the
// pool is closed. The returned handle must be released on every exit path.
func (p *Pool) Acquire(ctx context.Context) (*Handle, error) {
	select {
	case r := <-p.resources:
		return &Handle{pool: p, res: r}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, ErrClosed
	}
}

// Close waits for all outstanding handles to be released, then closes every
// resource. Acquire calls blocked or arriving after Close fail with ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	var firstErr error
	for i := 0; i < p.size; i++ {
		r := <-p.resources
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Handle is a scoped acquisition of one pool resource.
type Handle struct {
	pool *Pool
	res  scorer.Scorer
	once sync.Once
}

// Scorer returns the held resource. Valid until Release.
func (h *Handle) Scorer() scorer.Scorer {
	return h.res
}

// Release returns the resource to the pool. Safe to call more than once;
// only the first call has any effect.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.pool.resources <- h.res
	})
}
