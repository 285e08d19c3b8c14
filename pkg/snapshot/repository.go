package snapshot

import "context"

// Repository persists account snapshots.
// Implementations overwrite the previous snapshot on each Save.
type Repository interface {
	// Save persists the snapshot atomically, replacing any previous one.
	Save(ctx context.Context, snap Snapshot) error

	// Load retrieves the last saved snapshot.
	// Returns an empty snapshot and nil error if none exists.
	Load(ctx context.Context) (Snapshot, error)
}
