// Package keylock provides one mutex per key so that work on the same key is
// serialized while work on different keys runs in parallel.
package keylock

import "sync"

// Map hands out a mutex per key. Mutexes are never reclaimed; keys are
// property and booking IDs, which are bounded by the data set.
type Map[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

// New creates an empty lock map.
func New[K comparable]() *Map[K] {
	return &Map[K]{locks: make(map[K]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the function that releases it.
func (m *Map[K]) Lock(key K) (unlock func()) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
