package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent failure conditions reported to clients.
// Their text is the wire-level error message, so it stays stable.
// All can be checked with errors.Is.
var (
	// ErrInvalidAmount is returned when a mutation amount is not positive.
	ErrInvalidAmount = errors.New("amount must be > 0")

	// ErrSameAccount is returned when a transfer names one account twice.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrInsufficientFunds is returned when a withdrawal or transfer exceeds
	// the available balance. Use InsufficientFundsError to carry the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownAccount is returned when a balance is read for an account
	// that was never ensured.
	ErrUnknownAccount = errors.New("unknown account")
)

// InsufficientFundsError reports a rejected debit together with the current
// balance, which the failure response includes.
type InsufficientFundsError struct {
	Balance int64
}

func (e *InsufficientFundsError) Error() string {
	return ErrInsufficientFunds.Error()
}

// Is makes errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// MalformedRequestError reports an undecodable request line. The connection
// stays open; only the offending line fails.
type MalformedRequestError struct {
	Err error
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("bad json: %v", e.Err)
}

func (e *MalformedRequestError) Unwrap() error { return e.Err }

// MissingFieldError reports a request that lacks a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s", e.Field)
}

// UnknownCommandError reports a request whose cmd is not part of the protocol.
type UnknownCommandError struct {
	Cmd string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown cmd '%s'", e.Cmd)
}
