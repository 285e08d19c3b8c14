package snapshot

import "time"

// Snapshot is a full copy of the account map at one instant.
type Snapshot struct {
	// Accounts maps account id to balance in minor units.
	Accounts map[string]int64 `json:"accounts"`

	// Timestamp is the capture time in float seconds since the epoch.
	Timestamp float64 `json:"timestamp"`
}

// New captures the given balances with the current time.
// The map is stored as-is; callers pass a private copy.
func New(accounts map[string]int64) Snapshot {
	return Snapshot{
		Accounts:  accounts,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	}
}

// IsEmpty returns true if the snapshot holds no accounts.
func (s Snapshot) IsEmpty() bool {
	return len(s.Accounts) == 0
}
