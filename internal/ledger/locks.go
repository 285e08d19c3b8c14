package ledger

import "sync"

// LockManager hands out one mutex per account id, created on first access.
// Handles live for the process lifetime; repeated calls for the same id
// always return the same mutex.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLockManager creates an empty manager.
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*sync.Mutex)}
}

// LockFor returns the mutex for id, creating it under the structural lock
// if absent. Acquisition is the caller's responsibility and blocks until
// the holder releases; there is no per-call timeout.
func (m *LockManager) LockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}
