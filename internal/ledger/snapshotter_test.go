package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/ledgerd/pkg/snapshot"
)

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("file %s did not appear", path)
}

func TestSnapshotRunnerPersistsPeriodically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	repo := snapshot.NewFileRepository(path)
	e := New(nil, repo, zerolog.Nop())
	e.store.SetAll(map[string]int64{"alice": 42})

	r := NewSnapshotRunner(e, 20*time.Millisecond, zerolog.Nop())
	r.Start(context.Background())
	defer r.Stop()

	waitForFile(t, path)

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Accounts["alice"] != 42 {
		t.Fatalf("snapshot accounts = %v", snap.Accounts)
	}
}

func TestSnapshotRunnerDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	e := New(nil, snapshot.NewFileRepository(path), zerolog.Nop())

	r := NewSnapshotRunner(e, 0, zerolog.Nop())
	r.Start(context.Background())
	defer r.Stop()

	time.Sleep(100 * time.Millisecond)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("snapshot written with periodic persists disabled: %v", err)
	}
}

func TestSnapshotRunnerSetInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	e := New(nil, snapshot.NewFileRepository(path), zerolog.Nop())
	e.store.SetAll(map[string]int64{"alice": 1})

	r := NewSnapshotRunner(e, 0, zerolog.Nop())
	r.Start(context.Background())
	defer r.Stop()

	r.SetInterval(20 * time.Millisecond)
	waitForFile(t, path)
}
