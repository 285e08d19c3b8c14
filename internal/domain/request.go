package domain

import "encoding/json"

// Command identifies a protocol operation.
type Command string

// Protocol commands. One JSON object per line, "cmd" selects the operation.
const (
	CmdInitAccounts Command = "init_accounts"
	CmdBalance      Command = "balance"
	CmdDeposit      Command = "deposit"
	CmdWithdraw     Command = "withdraw"
	CmdTransfer     Command = "transfer"
	CmdShutdown     Command = "shutdown"
)

// Request is a decoded client command. The set of implementations is closed:
// exactly one type per protocol command.
type Request interface {
	Cmd() Command
}

// InitAccountsRequest overwrites the named accounts with initial balances.
type InitAccountsRequest struct {
	Accounts map[string]int64
}

func (InitAccountsRequest) Cmd() Command { return CmdInitAccounts }

// BalanceRequest reads one account balance.
type BalanceRequest struct {
	User string
}

func (BalanceRequest) Cmd() Command { return CmdBalance }

// DepositRequest credits an account. TxID may be empty on the wire; the
// transport fills a fresh id before dispatch.
type DepositRequest struct {
	User   string
	Amount int64
	TxID   string
}

func (DepositRequest) Cmd() Command { return CmdDeposit }

// WithdrawRequest debits an account.
type WithdrawRequest struct {
	User   string
	Amount int64
	TxID   string
}

func (WithdrawRequest) Cmd() Command { return CmdWithdraw }

// TransferRequest moves funds between two distinct accounts.
type TransferRequest struct {
	From   string
	To     string
	Amount int64
	TxID   string
}

func (TransferRequest) Cmd() Command { return CmdTransfer }

// ShutdownRequest asks the server to stop accepting work and exit.
type ShutdownRequest struct{}

func (ShutdownRequest) Cmd() Command { return CmdShutdown }

// envelope is the open wire shape. Pointer fields distinguish absent from
// zero-valued, which required-field validation needs.
type envelope struct {
	Cmd      string           `json:"cmd"`
	Accounts map[string]int64 `json:"accounts"`
	User     *string          `json:"user"`
	Amount   *int64           `json:"amount"`
	TxID     *string          `json:"tx_id"`
	From     *string          `json:"from"`
	To       *string          `json:"to"`
}

// DecodeRequest parses one request line into its closed variant.
// It returns MalformedRequestError for undecodable input, MissingFieldError
// when a required field is absent, and UnknownCommandError for an
// unrecognized cmd.
func DecodeRequest(line []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, &MalformedRequestError{Err: err}
	}

	switch Command(env.Cmd) {
	case CmdInitAccounts:
		if env.Accounts == nil {
			return nil, &MissingFieldError{Field: "accounts"}
		}
		return InitAccountsRequest{Accounts: env.Accounts}, nil

	case CmdBalance:
		if env.User == nil {
			return nil, &MissingFieldError{Field: "user"}
		}
		return BalanceRequest{User: *env.User}, nil

	case CmdDeposit:
		if env.User == nil {
			return nil, &MissingFieldError{Field: "user"}
		}
		if env.Amount == nil {
			return nil, &MissingFieldError{Field: "amount"}
		}
		return DepositRequest{User: *env.User, Amount: *env.Amount, TxID: strOrEmpty(env.TxID)}, nil

	case CmdWithdraw:
		if env.User == nil {
			return nil, &MissingFieldError{Field: "user"}
		}
		if env.Amount == nil {
			return nil, &MissingFieldError{Field: "amount"}
		}
		return WithdrawRequest{User: *env.User, Amount: *env.Amount, TxID: strOrEmpty(env.TxID)}, nil

	case CmdTransfer:
		if env.From == nil {
			return nil, &MissingFieldError{Field: "from"}
		}
		if env.To == nil {
			return nil, &MissingFieldError{Field: "to"}
		}
		if env.Amount == nil {
			return nil, &MissingFieldError{Field: "amount"}
		}
		return TransferRequest{From: *env.From, To: *env.To, Amount: *env.Amount, TxID: strOrEmpty(env.TxID)}, nil

	case CmdShutdown:
		return ShutdownRequest{}, nil

	default:
		return nil, &UnknownCommandError{Cmd: env.Cmd}
	}
}

// EncodeRequest renders a request as one wire line (without the trailing
// newline). Used by the companion client.
func EncodeRequest(req Request) ([]byte, error) {
	type wire struct {
		Cmd      Command          `json:"cmd"`
		Accounts map[string]int64 `json:"accounts,omitempty"`
		User     string           `json:"user,omitempty"`
		Amount   int64            `json:"amount,omitempty"`
		TxID     string           `json:"tx_id,omitempty"`
		From     string           `json:"from,omitempty"`
		To       string           `json:"to,omitempty"`
	}

	w := wire{Cmd: req.Cmd()}
	switch r := req.(type) {
	case InitAccountsRequest:
		w.Accounts = r.Accounts
	case BalanceRequest:
		w.User = r.User
	case DepositRequest:
		w.User, w.Amount, w.TxID = r.User, r.Amount, r.TxID
	case WithdrawRequest:
		w.User, w.Amount, w.TxID = r.User, r.Amount, r.TxID
	case TransferRequest:
		w.From, w.To, w.Amount, w.TxID = r.From, r.To, r.Amount, r.TxID
	case ShutdownRequest:
	}
	return json.Marshal(w)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
