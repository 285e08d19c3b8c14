package ledger

import (
	"sync"
	"testing"
)

func TestLockForReturnsSameHandle(t *testing.T) {
	m := NewLockManager()
	if m.LockFor("alice") != m.LockFor("alice") {
		t.Fatal("LockFor returned different handles for the same id")
	}
	if m.LockFor("alice") == m.LockFor("bob") {
		t.Fatal("LockFor returned the same handle for different ids")
	}
}

func TestLockForConcurrentCreation(t *testing.T) {
	m := NewLockManager()

	const workers = 50
	handles := make([]*sync.Mutex, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = m.LockFor("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if handles[i] != handles[0] {
			t.Fatal("concurrent LockFor created distinct handles for one id")
		}
	}
}
