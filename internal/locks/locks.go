// Package locks serializes mutating git operations per repository.
//
// Each repository is identified by a caller-chosen key (the owning app id,
// falling back to the repository path). Operations against the same key queue
// behind one another; operations against different keys proceed in parallel.
// Entries are reference counted so idle repositories do not accumulate in the
// registry. No caller ever holds locks for two repositories at once, so there
// is no lock ordering to get wrong.
package locks

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Registry hands out per-repository locks keyed by repository identity.
// The zero value is not usable; create registries with NewRegistry.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem *semaphore.Weighted
	// refs counts holders plus waiters so the entry survives contention
	// and is removed once the last interested caller releases.
	refs int
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Acquire blocks until the lock for key is held or ctx is done. On success it
// returns a release function that must be called exactly once; calling it
// again is a no-op.
func (r *Registry) Acquire(ctx context.Context, key string) (func(), error) {
	e := r.retain(key)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		r.release(key)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			r.release(key)
		})
	}, nil
}

// TryAcquire takes the lock for key without blocking. It returns the release
// function and true when the lock was free, or nil and false when another
// caller holds it.
func (r *Registry) TryAcquire(key string) (func(), bool) {
	e := r.retain(key)

	if !e.sem.TryAcquire(1) {
		r.release(key)
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			r.release(key)
		})
	}, true
}

// Len reports how many repositories currently have a lock entry. Idle
// repositories are evicted on release, so a quiesced registry reports zero.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) retain(key string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		r.entries[key] = e
	}
	e.refs++
	return e
}

func (r *Registry) release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(r.entries, key)
	}
}
