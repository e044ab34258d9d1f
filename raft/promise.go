package raft

import (
	"context"
	"sync"
)

// promise is the broadcast, multi-observer one-shot future backing the
// channel's live/caching promise pair. A plain Go channel can only be
// received by one goroutine; promise instead closes a gate channel once,
// and every Future created from it observes the same terminal
// (response, error) pair.
type promise struct {
	mu        sync.Mutex
	done      chan struct{}
	resp      *AppendLogResponse
	err       error
	resolved  bool
	observers int
}

func newPromise() *promise {
	return &promise{done: make(chan struct{})}
}

// tryAddObserver registers one more waiter bound to this promise, enforcing
// a MAX_OUTSTANDING-style backpressure bound. It returns false without
// registering if the bound would be exceeded.
func (p *promise) tryAddObserver(max int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observers >= max {
		return false
	}
	p.observers++
	return true
}

// resolve completes the promise exactly once; later calls are no-ops so
// that both the success path and a racing shutdown path can call resolve
// without coordination.
func (p *promise) resolve(resp *AppendLogResponse, err error) {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()
		return
	}
	p.resolved = true
	p.resp = resp
	p.err = err
	p.mu.Unlock()
	close(p.done)
}

// future returns a new Future observing this promise's eventual outcome.
func (p *promise) future() Future {
	return &promiseFuture{p: p}
}

// resolvedFuture returns a Future that is already resolved, for the
// synchronous fast paths of the Submission Gate (heartbeat re-send, stale
// submission, submission-refused).
func resolvedFuture(resp *AppendLogResponse, err error) Future {
	p := newPromise()
	p.resolve(resp, err)
	return p.future()
}

type promiseFuture struct {
	p *promise
}

func (f *promiseFuture) Wait(ctx context.Context) (*AppendLogResponse, error) {
	select {
	case <-f.p.done:
		return f.p.resp, f.p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
