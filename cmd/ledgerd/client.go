package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/ledgerd/internal/client"
	"github.com/bft-labs/ledgerd/internal/cliconfig"
	"github.com/bft-labs/ledgerd/internal/domain"
)

// newClientCommand builds the "ledgerd client" command tree. Each subcommand
// performs one request against a running server and prints the raw response
// line. Amounts are integers in minor currency units ($1.23 => 123).
func newClientCommand() *cobra.Command {
	addr := cliconfig.DefaultListenAddr
	var txID string

	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Send one command to a running ledgerd server",
		Example: strings.TrimSpace(`
  ledgerd client init accounts.json
  ledgerd client balance alice
  ledgerd client deposit alice 2500
  ledgerd client withdraw bob 1000
  ledgerd client transfer alice bob 777 --tx-id T4
  ledgerd client shutdown`),
	}
	clientCmd.PersistentFlags().StringVar(&addr, "addr", addr, "server address")
	clientCmd.PersistentFlags().StringVar(&txID, "tx-id", "", "transaction id for idempotent retry (server generates one when omitted)")

	do := func(req domain.Request) error {
		resp, err := client.New(addr).Do(req)
		if err != nil {
			return err
		}
		fmt.Print(string(resp))
		return nil
	}

	clientCmd.AddCommand(
		&cobra.Command{
			Use:   "init FILE",
			Short: "Initialize accounts from a JSON file of id to balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				var accounts map[string]int64
				if err := json.Unmarshal(data, &accounts); err != nil {
					return fmt.Errorf("parse %s: %w", args[0], err)
				}
				return do(domain.InitAccountsRequest{Accounts: accounts})
			},
		},
		&cobra.Command{
			Use:   "balance USER",
			Short: "Read one account balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return do(domain.BalanceRequest{User: args[0]})
			},
		},
		&cobra.Command{
			Use:   "deposit USER AMOUNT",
			Short: "Credit an account (amount in minor units)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return do(domain.DepositRequest{User: args[0], Amount: amount, TxID: txID})
			},
		},
		&cobra.Command{
			Use:   "withdraw USER AMOUNT",
			Short: "Debit an account (amount in minor units)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return do(domain.WithdrawRequest{User: args[0], Amount: amount, TxID: txID})
			},
		},
		&cobra.Command{
			Use:   "transfer FROM TO AMOUNT",
			Short: "Move funds between two accounts",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[2])
				if err != nil {
					return err
				}
				return do(domain.TransferRequest{From: args[0], To: args[1], Amount: amount, TxID: txID})
			},
		},
		&cobra.Command{
			Use:   "shutdown",
			Short: "Ask the server to stop",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return do(domain.ShutdownRequest{})
			},
		},
	)

	return clientCmd
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return amount, nil
}
