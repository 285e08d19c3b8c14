// Package ledger implements the ledgerd account engine.
//
// The engine owns four components and is the only place with business logic:
//
//   - [AccountStore]: account id to balance map (integer minor units)
//   - [LockManager]: lazily-created per-account mutexes
//   - [IdempotencyTracker]: check-and-insert set of applied transaction ids
//   - the write-ahead log and snapshot repository it appends to
//
// Locking is two-tier. Registry-level mutations (creating a lock handle,
// claiming a transaction id, bulk initialization) are guarded by the
// components' structural mutexes; steady-state balance mutation is guarded
// by per-account locks only. Transfers acquire both account locks in
// lexicographic id order at every call site, which keeps multi-account
// locking deadlock-free regardless of transfer direction.
package ledger
