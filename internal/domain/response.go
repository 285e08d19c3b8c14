package domain

// Response shapes are closed structs per operation. Every response carries
// "ok"; failures carry "error" and, for insufficient funds, the current
// balance.

// InitAccountsResponse returns the full account map after a bulk overwrite.
type InitAccountsResponse struct {
	OK       bool             `json:"ok"`
	Accounts map[string]int64 `json:"accounts"`
}

// BalanceResponse reports one account's current balance.
type BalanceResponse struct {
	OK      bool   `json:"ok"`
	User    string `json:"user"`
	Balance int64  `json:"balance"`
}

// MutationResponse reports a deposit or withdrawal that was applied.
type MutationResponse struct {
	OK     bool  `json:"ok"`
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

// DuplicateResponse reports an idempotent replay: the transaction id was
// already claimed, nothing moved, and the call still succeeds.
type DuplicateResponse struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate"`
}

// BalanceChange is the before/after view of one account touched by a transfer.
type BalanceChange struct {
	User   string `json:"user"`
	Before int64  `json:"before"`
	After  int64  `json:"after"`
}

// TransferResponse reports both sides of an applied transfer.
type TransferResponse struct {
	OK   bool          `json:"ok"`
	From BalanceChange `json:"from"`
	To   BalanceChange `json:"to"`
}

// ShutdownResponse acknowledges a shutdown request.
type ShutdownResponse struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}

// ErrorResponse reports a failed operation on the same connection.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Balance *int64 `json:"balance,omitempty"`
}
