package engine

import "sync"

// ownerLocks hands out one mutex per owner.
//
// Entries are reference counted and removed when the last holder releases,
// so the map only holds owners with an Apply in flight.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// lock blocks until the owner's mutex is held and returns its release func.
func (l *ownerLocks) lock(ownerID string) func() {
	l.mu.Lock()
	ol, ok := l.locks[ownerID]
	if !ok {
		ol = &ownerLock{}
		l.locks[ownerID] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.mu.Lock()

	return func() {
		ol.mu.Unlock()

		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, ownerID)
		}
		l.mu.Unlock()
	}
}

// size returns the number of tracked owners. Used for testing.
func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
