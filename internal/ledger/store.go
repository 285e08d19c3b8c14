package ledger

import (
	"sync"

	"github.com/bft-labs/ledgerd/internal/domain"
)

// AccountStore maps account ids to balances in minor units.
//
// The internal mutex only keeps map access memory-safe; logical serialization
// of read-modify-write sequences is the caller's job, via the relevant
// account lock (or the bulk-init path, which goes through SetAll).
type AccountStore struct {
	mu       sync.RWMutex
	balances map[string]int64
}

// NewAccountStore creates an empty store.
func NewAccountStore() *AccountStore {
	return &AccountStore{balances: make(map[string]int64)}
}

// Ensure creates the account with balance 0 if absent. Idempotent.
func (s *AccountStore) Ensure(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[id]; !ok {
		s.balances[id] = 0
	}
}

// Get returns the current balance. It fails with ErrUnknownAccount only when
// called without a prior Ensure.
func (s *AccountStore) Get(id string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, ok := s.balances[id]
	if !ok {
		return 0, domain.ErrUnknownAccount
	}
	return balance, nil
}

// Set overwrites one balance. The caller must hold the account's lock.
func (s *AccountStore) Set(id string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[id] = balance
}

// SetAll overwrites the balances of the named ids, leaving other accounts
// untouched. Used only by bulk initialization.
func (s *AccountStore) SetAll(balances map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, balance := range balances {
		s.balances[id] = balance
	}
}

// Copy returns a self-consistent copy of every balance.
func (s *AccountStore) Copy() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.balances))
	for id, balance := range s.balances {
		out[id] = balance
	}
	return out
}
