package ledger

import (
	"errors"
	"testing"

	"github.com/bft-labs/ledgerd/internal/domain"
)

func TestStoreEnsureAndGet(t *testing.T) {
	s := NewAccountStore()

	if _, err := s.Get("alice"); !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("Get before Ensure: err = %v, want ErrUnknownAccount", err)
	}

	s.Ensure("alice")
	b, err := s.Get("alice")
	if err != nil {
		t.Fatalf("Get after Ensure: %v", err)
	}
	if b != 0 {
		t.Fatalf("fresh balance = %d, want 0", b)
	}

	s.Set("alice", 500)
	s.Ensure("alice") // must not reset
	if b, _ := s.Get("alice"); b != 500 {
		t.Fatalf("balance after re-Ensure = %d, want 500", b)
	}
}

func TestStoreSetAllOverwritesOnlyNamed(t *testing.T) {
	s := NewAccountStore()
	s.Ensure("carol")
	s.Set("carol", 42)

	s.SetAll(map[string]int64{"alice": 100000, "bob": 50000})

	if b, _ := s.Get("alice"); b != 100000 {
		t.Errorf("alice = %d, want 100000", b)
	}
	if b, _ := s.Get("carol"); b != 42 {
		t.Errorf("carol = %d, want 42 (untouched)", b)
	}

	s.SetAll(map[string]int64{"alice": 7})
	if b, _ := s.Get("alice"); b != 7 {
		t.Errorf("alice after overwrite = %d, want 7", b)
	}
}

func TestStoreCopyIsDetached(t *testing.T) {
	s := NewAccountStore()
	s.SetAll(map[string]int64{"alice": 1})

	c := s.Copy()
	c["alice"] = 999

	if b, _ := s.Get("alice"); b != 1 {
		t.Fatalf("store balance mutated through copy: %d", b)
	}
}
