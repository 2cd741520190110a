package transfer

import (
	"context"
	"fmt"
	"sync"
)

// Ensure Bank implements Service
var _ Service = (*Bank)(nil)

// Bank is an in-memory Service implementation. Balances are int64 minor
// units keyed by account name. Pulls consume spending authorizations granted
// to the pool account via Authorize, so an account can never be debited
// without having opted in first.
type Bank struct {
	mu         sync.Mutex
	pool       string
	balances   map[string]int64
	allowances map[string]int64 // account -> remaining amount the pool may pull
}

// NewBank creates a Bank whose pool account is the given name.
func NewBank(pool string) *Bank {
	return &Bank{
		pool:       pool,
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
	}
}

// Deposit credits an account, creating it if needed. Used to fund accounts
// from outside the ledger (onboarding, top-ups, tests).
func (b *Bank) Deposit(account string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("deposit amount must be non-negative, got %d", amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
	return nil
}

// Authorize grants the pool permission to pull up to amount from the given
// account, on top of any remaining authorization. Pulls decrement it.
func (b *Bank) Authorize(account string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("authorization amount must be non-negative, got %d", amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allowances[account] += amount
	return nil
}

// Allowance returns how much the pool may still pull from the account.
func (b *Bank) Allowance(account string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allowances[account]
}

// Pull implements Service.
func (b *Bank) Pull(ctx context.Context, from, to string, amount int64) error {
	return b.PullBatch(ctx, []string{from}, []int64{amount}, to)
}

// PullBatch implements Service. Every leg is checked against balances and
// authorizations before any balance moves, so a failing leg leaves the bank
// untouched.
func (b *Bank) PullBatch(ctx context.Context, froms []string, amounts []int64, to string) error {
	if len(froms) != len(amounts) {
		return fmt.Errorf("mismatched batch: %d accounts, %d amounts", len(froms), len(amounts))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// First pass: accumulate per-account totals and verify them.
	totals := make(map[string]int64, len(froms))
	for i, from := range froms {
		if amounts[i] < 0 {
			return fmt.Errorf("pull amount must be non-negative, got %d for %q", amounts[i], from)
		}
		totals[from] += amounts[i]
	}
	for account, total := range totals {
		if b.balances[account] < total {
			return fmt.Errorf("account %q: %w (have %d, need %d)",
				account, ErrInsufficientFunds, b.balances[account], total)
		}
		if b.allowances[account] < total {
			return fmt.Errorf("account %q: %w (authorized %d, need %d)",
				account, ErrNotAuthorized, b.allowances[account], total)
		}
	}

	// Second pass: apply. Cannot fail after the checks above.
	for account, total := range totals {
		b.balances[account] -= total
		b.allowances[account] -= total
		b.balances[to] += total
	}
	return nil
}

// Push implements Service: moves amount from the pool's balance to `to`.
func (b *Bank) Push(ctx context.Context, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("push amount must be non-negative, got %d", amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[b.pool] < amount {
		return fmt.Errorf("pool %q: %w (have %d, need %d)",
			b.pool, ErrInsufficientFunds, b.balances[b.pool], amount)
	}
	b.balances[b.pool] -= amount
	b.balances[to] += amount
	return nil
}

// BalanceOf implements Service.
func (b *Bank) BalanceOf(ctx context.Context, holder string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[holder], nil
}
