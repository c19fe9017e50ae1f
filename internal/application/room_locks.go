package application

import "sync"

// roomLocks serializes the overlap-check-then-commit sequence per room so
// that two concurrent approvals (or creations) for overlapping dates on the
// same room cannot both pass the check.
type roomLocks struct {
	mu    sync.Mutex
	locks map[int64]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[int64]*roomLock)}
}

// lock acquires the mutex for the given room, creating it on first use, and
// returns the unlock function. Entries are reference-counted and removed on
// the last release, so the map stays bounded by the number of in-flight
// operations rather than growing with every room ever touched.
func (l *roomLocks) lock(roomID int64) func() {
	l.mu.Lock()
	entry, ok := l.locks[roomID]
	if !ok {
		entry = &roomLock{}
		l.locks[roomID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, roomID)
		}
		l.mu.Unlock()
	}
}
