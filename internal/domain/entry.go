package domain

import "time"

// EntryKind identifies the mutation recorded by a write-ahead log entry.
type EntryKind string

// Write-ahead log entry kinds.
const (
	EntryDeposit  EntryKind = "deposit"
	EntryWithdraw EntryKind = "withdraw"
	EntryTransfer EntryKind = "transfer"
)

// MutationEntry is the write-ahead log record for a single-account mutation.
// Entries are appended after the mutation commits and are never rewritten.
type MutationEntry struct {
	Kind      EntryKind `json:"tx"`
	TxID      string    `json:"tx_id"`
	User      string    `json:"user"`
	Amount    int64     `json:"amount"`
	After     int64     `json:"after"`
	AppliedAt time.Time `json:"applied_at"`
}

// TransferEntry is the write-ahead log record covering both sides of a
// transfer in one append.
type TransferEntry struct {
	Kind      EntryKind `json:"tx"`
	TxID      string    `json:"tx_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    int64     `json:"amount"`
	AfterFrom int64     `json:"after_from"`
	AfterTo   int64     `json:"after_to"`
	AppliedAt time.Time `json:"applied_at"`
}
