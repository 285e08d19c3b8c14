package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/ledgerd/internal/domain"
	"github.com/bft-labs/ledgerd/pkg/snapshot"
	"github.com/bft-labs/ledgerd/pkg/wal"
)

// Mutation is the result of an applied (or replayed) deposit or withdrawal.
type Mutation struct {
	Before    int64
	After     int64
	Duplicate bool
}

// TransferMutation is the result of an applied (or replayed) transfer.
type TransferMutation struct {
	From      domain.BalanceChange
	To        domain.BalanceChange
	Duplicate bool
}

// Engine orchestrates the account store, lock manager, idempotency tracker,
// write-ahead log and snapshot repository. It is the single source of truth
// for balances; all mutations go through its public operations.
//
// Each operation is atomic from the caller's perspective: no partial
// mutation is observable once the account lock(s) are released.
type Engine struct {
	store     *AccountStore
	locks     *LockManager
	claims    *IdempotencyTracker
	wal       *wal.Writer
	snapshots snapshot.Repository
	logger    zerolog.Logger
}

// New creates an engine with empty state.
// The WAL writer and snapshot repository may be nil, in which case the
// corresponding durability hints are skipped (used by logic-only tests).
func New(w *wal.Writer, snaps snapshot.Repository, logger zerolog.Logger) *Engine {
	return &Engine{
		store:     NewAccountStore(),
		locks:     NewLockManager(),
		claims:    NewIdempotencyTracker(),
		wal:       w,
		snapshots: snaps,
		logger:    logger,
	}
}

// InitAccounts overwrites the named accounts with the given balances,
// pre-creates their lock handles, persists a snapshot and returns a copy of
// the full resulting account map.
//
// Not idempotency-tracked: repeated calls each fully overwrite the named
// accounts.
func (e *Engine) InitAccounts(ctx context.Context, balances map[string]int64) (map[string]int64, error) {
	e.store.SetAll(balances)
	for id := range balances {
		e.locks.LockFor(id)
	}

	if err := e.SnapshotNow(ctx); err != nil {
		return nil, err
	}

	e.logger.Info().Int("accounts", len(balances)).Msg("accounts initialized")
	return e.store.Copy(), nil
}

// Balance returns the current balance of user, creating the account with
// balance 0 on first reference. Reads take the account lock so they never
// observe a mutation in flight.
func (e *Engine) Balance(ctx context.Context, user string) (int64, error) {
	e.store.Ensure(user)

	l := e.locks.LockFor(user)
	l.Lock()
	balance, err := e.store.Get(user)
	l.Unlock()
	return balance, err
}

// Deposit credits amount to user. A replayed txID short-circuits to a
// duplicate result without touching balances or the log.
func (e *Engine) Deposit(ctx context.Context, user string, amount int64, txID string) (Mutation, error) {
	if amount <= 0 {
		return Mutation{}, domain.ErrInvalidAmount
	}
	if fresh := e.claims.Claim(txID); !fresh {
		return Mutation{Duplicate: true}, nil
	}

	e.store.Ensure(user)

	l := e.locks.LockFor(user)
	l.Lock()
	before, err := e.store.Get(user)
	if err != nil {
		l.Unlock()
		return Mutation{}, err
	}
	after := before + amount
	e.store.Set(user, after)
	l.Unlock()

	if err := e.append(domain.MutationEntry{
		Kind:      domain.EntryDeposit,
		TxID:      txID,
		User:      user,
		Amount:    amount,
		After:     after,
		AppliedAt: time.Now(),
	}); err != nil {
		return Mutation{}, err
	}

	e.logger.Debug().Str("user", user).Int64("amount", amount).Str("tx_id", txID).Msg("deposit applied")
	return Mutation{Before: before, After: after}, nil
}

// Withdraw debits amount from user, failing with InsufficientFundsError when
// the balance does not cover it.
//
// The idempotency claim is consumed before the balance check: a retried
// withdrawal with the same txID after an insufficient-funds failure reports
// duplicate success without moving funds.
func (e *Engine) Withdraw(ctx context.Context, user string, amount int64, txID string) (Mutation, error) {
	if amount <= 0 {
		return Mutation{}, domain.ErrInvalidAmount
	}
	if fresh := e.claims.Claim(txID); !fresh {
		return Mutation{Duplicate: true}, nil
	}

	e.store.Ensure(user)

	l := e.locks.LockFor(user)
	l.Lock()
	before, err := e.store.Get(user)
	if err != nil {
		l.Unlock()
		return Mutation{}, err
	}
	if before < amount {
		l.Unlock()
		return Mutation{}, &domain.InsufficientFundsError{Balance: before}
	}
	after := before - amount
	e.store.Set(user, after)
	l.Unlock()

	if err := e.append(domain.MutationEntry{
		Kind:      domain.EntryWithdraw,
		TxID:      txID,
		User:      user,
		Amount:    amount,
		After:     after,
		AppliedAt: time.Now(),
	}); err != nil {
		return Mutation{}, err
	}

	e.logger.Debug().Str("user", user).Int64("amount", amount).Str("tx_id", txID).Msg("withdrawal applied")
	return Mutation{Before: before, After: after}, nil
}

// Transfer moves amount from one account to another. Both account locks are
// acquired in lexicographic id order, uniform across all callers, so
// opposing transfers on the same pair cannot deadlock.
func (e *Engine) Transfer(ctx context.Context, from, to string, amount int64, txID string) (TransferMutation, error) {
	if amount <= 0 {
		return TransferMutation{}, domain.ErrInvalidAmount
	}
	if from == to {
		return TransferMutation{}, domain.ErrSameAccount
	}
	if fresh := e.claims.Claim(txID); !fresh {
		return TransferMutation{Duplicate: true}, nil
	}

	e.store.Ensure(from)
	e.store.Ensure(to)

	first, second := from, to
	if second < first {
		first, second = second, first
	}
	l1 := e.locks.LockFor(first)
	l2 := e.locks.LockFor(second)

	l1.Lock()
	l2.Lock()

	beforeFrom, err := e.store.Get(from)
	if err != nil {
		l2.Unlock()
		l1.Unlock()
		return TransferMutation{}, err
	}
	beforeTo, err := e.store.Get(to)
	if err != nil {
		l2.Unlock()
		l1.Unlock()
		return TransferMutation{}, err
	}
	if beforeFrom < amount {
		l2.Unlock()
		l1.Unlock()
		return TransferMutation{}, &domain.InsufficientFundsError{Balance: beforeFrom}
	}

	afterFrom := beforeFrom - amount
	afterTo := beforeTo + amount
	e.store.Set(from, afterFrom)
	e.store.Set(to, afterTo)

	l2.Unlock()
	l1.Unlock()

	if err := e.append(domain.TransferEntry{
		Kind:      domain.EntryTransfer,
		TxID:      txID,
		From:      from,
		To:        to,
		Amount:    amount,
		AfterFrom: afterFrom,
		AfterTo:   afterTo,
		AppliedAt: time.Now(),
	}); err != nil {
		return TransferMutation{}, err
	}

	e.logger.Debug().Str("from", from).Str("to", to).Int64("amount", amount).Str("tx_id", txID).Msg("transfer applied")
	return TransferMutation{
		From: domain.BalanceChange{User: from, Before: beforeFrom, After: afterFrom},
		To:   domain.BalanceChange{User: to, Before: beforeTo, After: afterTo},
	}, nil
}

// SnapshotNow persists a full, self-consistent copy of current balances.
// Called after bulk initialization, by the periodic runner, and on clean
// shutdown; never after individual transactions.
func (e *Engine) SnapshotNow(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	snap := snapshot.New(e.store.Copy())
	if err := e.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	e.logger.Debug().Int("accounts", len(snap.Accounts)).Msg("snapshot persisted")
	return nil
}

func (e *Engine) append(entry any) error {
	if e.wal == nil {
		return nil
	}
	if err := e.wal.Append(entry); err != nil {
		return fmt.Errorf("append wal entry: %w", err)
	}
	return nil
}
