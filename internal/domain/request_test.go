package domain

import (
	"errors"
	"testing"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Request
	}{
		{
			name: "init_accounts",
			line: `{"cmd":"init_accounts","accounts":{"alice":100000,"bob":50000}}`,
			want: InitAccountsRequest{Accounts: map[string]int64{"alice": 100000, "bob": 50000}},
		},
		{
			name: "balance",
			line: `{"cmd":"balance","user":"alice"}`,
			want: BalanceRequest{User: "alice"},
		},
		{
			name: "deposit with tx_id",
			line: `{"cmd":"deposit","user":"alice","amount":2500,"tx_id":"T1"}`,
			want: DepositRequest{User: "alice", Amount: 2500, TxID: "T1"},
		},
		{
			name: "deposit without tx_id",
			line: `{"cmd":"deposit","user":"alice","amount":2500}`,
			want: DepositRequest{User: "alice", Amount: 2500},
		},
		{
			name: "withdraw",
			line: `{"cmd":"withdraw","user":"bob","amount":1000,"tx_id":"T2"}`,
			want: WithdrawRequest{User: "bob", Amount: 1000, TxID: "T2"},
		},
		{
			name: "transfer",
			line: `{"cmd":"transfer","from":"alice","to":"bob","amount":777,"tx_id":"T4"}`,
			want: TransferRequest{From: "alice", To: "bob", Amount: 777, TxID: "T4"},
		},
		{
			name: "shutdown",
			line: `{"cmd":"shutdown"}`,
			want: ShutdownRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.line))
			if err != nil {
				t.Fatalf("DecodeRequest returned error: %v", err)
			}
			switch want := tt.want.(type) {
			case InitAccountsRequest:
				r, ok := got.(InitAccountsRequest)
				if !ok {
					t.Fatalf("decoded %T, want InitAccountsRequest", got)
				}
				if len(r.Accounts) != len(want.Accounts) {
					t.Fatalf("accounts = %v, want %v", r.Accounts, want.Accounts)
				}
				for id, balance := range want.Accounts {
					if r.Accounts[id] != balance {
						t.Errorf("accounts[%s] = %d, want %d", id, r.Accounts[id], balance)
					}
				}
			default:
				if got != tt.want {
					t.Fatalf("decoded %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantMsg string
	}{
		{"bad json", `{nope`, "bad json"},
		{"unknown cmd", `{"cmd":"frobnicate"}`, `unknown cmd 'frobnicate'`},
		{"no cmd", `{}`, `unknown cmd ''`},
		{"init missing accounts", `{"cmd":"init_accounts"}`, "missing field: accounts"},
		{"balance missing user", `{"cmd":"balance"}`, "missing field: user"},
		{"deposit missing user", `{"cmd":"deposit","amount":1}`, "missing field: user"},
		{"deposit missing amount", `{"cmd":"deposit","user":"alice"}`, "missing field: amount"},
		{"withdraw missing amount", `{"cmd":"withdraw","user":"bob"}`, "missing field: amount"},
		{"transfer missing from", `{"cmd":"transfer","to":"bob","amount":1}`, "missing field: from"},
		{"transfer missing to", `{"cmd":"transfer","from":"alice","amount":1}`, "missing field: to"},
		{"transfer missing amount", `{"cmd":"transfer","from":"alice","to":"bob"}`, "missing field: amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.line))
			if err == nil {
				t.Fatalf("DecodeRequest = %#v, want error", req)
			}
			if got := err.Error(); len(got) < len(tt.wantMsg) || got[:len(tt.wantMsg)] != tt.wantMsg {
				t.Fatalf("error = %q, want prefix %q", got, tt.wantMsg)
			}
		})
	}
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	reqs := []Request{
		InitAccountsRequest{Accounts: map[string]int64{"alice": 100}},
		BalanceRequest{User: "alice"},
		DepositRequest{User: "alice", Amount: 2500, TxID: "T1"},
		WithdrawRequest{User: "bob", Amount: 1000, TxID: "T2"},
		TransferRequest{From: "alice", To: "bob", Amount: 777, TxID: "T4"},
		ShutdownRequest{},
	}

	for _, req := range reqs {
		line, err := EncodeRequest(req)
		if err != nil {
			t.Fatalf("EncodeRequest(%T): %v", req, err)
		}
		got, err := DecodeRequest(line)
		if err != nil {
			t.Fatalf("DecodeRequest(%s): %v", line, err)
		}
		if got.Cmd() != req.Cmd() {
			t.Errorf("round trip cmd = %s, want %s", got.Cmd(), req.Cmd())
		}
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := &InsufficientFundsError{Balance: 49000}
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatal("errors.Is(err, ErrInsufficientFunds) = false")
	}
	if err.Error() != "insufficient funds" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
