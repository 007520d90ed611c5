// Package keylock serializes work per key, such as per character or draft id.
package keylock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/KirkDiggler/charforge/internal/errors"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Locks hands out one exclusive lock per key. Entries are dropped once no
// caller holds or waits on them.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty lock table
func New() *Locks {
	return &Locks{entries: make(map[string]*entry)}
}

// Lock blocks until key is free or ctx is done. The returned func releases
// the lock and must be called exactly once.
func (l *Locks) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		l.release(key, e, false)
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "lock wait canceled")
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, e, true) })
	}, nil
}

func (l *Locks) release(key string, e *entry, held bool) {
	if held {
		e.sem.Release(1)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Len is the number of keys currently held or awaited
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
