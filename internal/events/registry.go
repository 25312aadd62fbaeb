// Package events provides small generic pub/sub primitives used to fan table
// and status changes out to views.
package events

import (
	"maps"
	"slices"
	"sync"
)

// registry tracks listeners of type L for values of type T and, when replay
// is on, remembers the most recent value for late listeners
type registry[T any, L any] struct {
	mu        sync.RWMutex
	listeners map[uint64]L
	nextID    uint64
	replay    bool
	last      T
	hasLast   bool
}

func (r *registry[T, L]) setup(replay bool) {
	r.listeners = make(map[uint64]L)
	r.replay = replay
}

// add stores l and returns its id plus the value to replay to it, if any
func (r *registry[T, L]) add(l L) (uint64, T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	return id, r.last, r.replay && r.hasLast
}

func (r *registry[T, L]) remover(id uint64) func() {
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// publish records value for replay and returns the listeners to deliver to.
// Delivery happens outside the lock so listeners may re-enter.
func (r *registry[T, L]) publish(value T) []L {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replay {
		r.last = value
		r.hasLast = true
	}
	ids := slices.Sorted(maps.Keys(r.listeners))
	out := make([]L, len(ids))
	for i, id := range ids {
		out[i] = r.listeners[id]
	}
	return out
}

// Last returns the most recently published value. ok is false when replay
// is off or nothing has been published yet.
func (r *registry[T, L]) Last() (value T, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.replay && r.hasLast
}

// ListenerCount returns the current number of registered listeners
func (r *registry[T, L]) ListenerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}
