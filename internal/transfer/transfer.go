// Package transfer defines the value-transfer collaborator the ledger moves
// funds through, plus an in-memory implementation used by the server and tests.
package transfer

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds is returned when an account cannot cover a pull
	// or the pool cannot cover a push.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotAuthorized is returned when the source account has not granted
	// the pool enough spending authorization to cover a pull.
	ErrNotAuthorized = errors.New("account has not authorized this transfer")
)

// Service moves value between accounts on behalf of the ledger.
//
// Every method must be atomic: it either fully applies or leaves all
// balances untouched. PullBatch extends that guarantee across the whole
// sequence of legs — the ledger relies on this for split purchases and may
// only be backed by implementations that honor it.
type Service interface {
	// Pull moves amount from the `from` account into `to`. Fails cleanly
	// with no partial debit on insufficient balance or missing
	// authorization from the source account.
	Pull(ctx context.Context, from, to string, amount int64) error

	// PullBatch moves amounts[i] from froms[i] into `to` for every i, as a
	// single all-or-nothing operation. The same source account may appear
	// more than once; its legs are charged cumulatively.
	PullBatch(ctx context.Context, froms []string, amounts []int64, to string) error

	// Push moves amount from the pool's own balance to the `to` account.
	Push(ctx context.Context, to string, amount int64) error

	// BalanceOf returns the current balance of the given account.
	BalanceOf(ctx context.Context, holder string) (int64, error)
}
