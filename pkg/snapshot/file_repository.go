package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// FileRepository implements Repository using a single JSON file.
type FileRepository struct {
	path string
}

// NewFileRepository creates a FileRepository writing to the given path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Save persists the snapshot atomically.
// It writes to a temp file in the same directory, then renames over the
// previous snapshot.
func (r *FileRepository) Save(ctx context.Context, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// Load retrieves the last saved snapshot from disk.
// Returns an empty snapshot and nil error if no snapshot file exists.
func (r *FileRepository) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Path returns the snapshot file path.
func (r *FileRepository) Path() string {
	return r.path
}
