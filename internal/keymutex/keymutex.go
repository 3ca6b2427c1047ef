// Package keymutex provides mutual exclusion keyed by a dynamic resource
// identifier. Locks are created lazily on first use and reclaimed once no
// caller holds or waits on them, so the registry stays bounded by the
// number of keys under active contention.
package keymutex

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrWaitTimeout is returned when a lock could not be acquired within the
// registry's wait bound.
var ErrWaitTimeout = errors.New("timed out waiting for lock")

type entry struct {
	// ch acts as the mutex: holding the lock means having sent into it.
	// Blocked senders are queued FIFO by the runtime, so waiters are
	// served in arrival order.
	ch   chan struct{}
	refs int
}

// Registry is a table of per-key locks. Keys never block each other.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	maxWait time.Duration
}

// NewRegistry creates a Registry. maxWait bounds how long Acquire blocks
// on a contended key; zero means wait until ctx is done.
func NewRegistry(maxWait time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		maxWait: maxWait,
	}
}

// Acquire locks the given key, blocking while another caller holds it.
// The returned release function must be called exactly once on every exit
// path. Acquire fails with ctx.Err() if the context ends first, or
// ErrWaitTimeout if the wait bound elapses.
func (r *Registry) Acquire(ctx context.Context, key string) (func(), error) {
	e := r.checkout(key)

	var timeout <-chan time.Time
	if r.maxWait > 0 {
		timer := time.NewTimer(r.maxWait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			r.checkin(key, e)
		}, nil
	case <-ctx.Done():
		r.checkin(key, e)
		return nil, ctx.Err()
	case <-timeout:
		r.checkin(key, e)
		return nil, ErrWaitTimeout
	}
}

// Len reports how many keys currently have a live lock entry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) checkout(key string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		r.entries[key] = e
	}
	e.refs++
	return e
}

func (r *Registry) checkin(key string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(r.entries, key)
	}
}
