package ledger

import "sync"

// IdempotencyTracker records transaction ids that have already been claimed.
// The set only grows; no retention policy exists in this design.
type IdempotencyTracker struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewIdempotencyTracker creates an empty tracker.
func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{claimed: make(map[string]struct{})}
}

// Claim atomically tests membership and inserts if absent.
// It returns true for a fresh id and false for a duplicate.
func (t *IdempotencyTracker) Claim(txID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.claimed[txID]; ok {
		return false
	}
	t.claimed[txID] = struct{}{}
	return true
}

// Len returns the number of claimed ids.
func (t *IdempotencyTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.claimed)
}
