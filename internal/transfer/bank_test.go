package transfer

import (
	"context"
	"errors"
	"testing"
)

func TestBankPull(t *testing.T) {
	ctx := context.Background()

	t.Run("successful pull moves funds and consumes authorization", func(t *testing.T) {
		bank := NewBank("pool")
		bank.Deposit("Alice", 100)
		bank.Authorize("Alice", 100)

		if err := bank.Pull(ctx, "Alice", "pool", 60); err != nil {
			t.Fatalf("Pull failed: %v", err)
		}

		if got, _ := bank.BalanceOf(ctx, "Alice"); got != 40 {
			t.Errorf("Alice balance = %d, want 40", got)
		}
		if got, _ := bank.BalanceOf(ctx, "pool"); got != 60 {
			t.Errorf("pool balance = %d, want 60", got)
		}
		if got := bank.Allowance("Alice"); got != 40 {
			t.Errorf("Alice allowance = %d, want 40", got)
		}
	})

	t.Run("pull without authorization fails", func(t *testing.T) {
		bank := NewBank("pool")
		bank.Deposit("Alice", 100)

		err := bank.Pull(ctx, "Alice", "pool", 10)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got %v", err)
		}
		if got, _ := bank.BalanceOf(ctx, "Alice"); got != 100 {
			t.Errorf("Alice balance changed on failed pull: %d", got)
		}
	})

	t.Run("pull exceeding balance fails", func(t *testing.T) {
		bank := NewBank("pool")
		bank.Deposit("Alice", 30)
		bank.Authorize("Alice", 100)

		err := bank.Pull(ctx, "Alice", "pool", 50)
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
	})
}

func TestBankPullBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("all-or-nothing: one failing leg leaves every balance untouched", func(t *testing.T) {
		bank := NewBank("pool")
		bank.Deposit("Alice", 100)
		bank.Authorize("Alice", 100)
		bank.Deposit("Bob", 10) // cannot cover his leg
		bank.Authorize("Bob", 100)

		err := bank.PullBatch(ctx, []string{"Alice", "Bob"}, []int64{60, 40}, "pool")
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}

		if got, _ := bank.BalanceOf(ctx, "Alice"); got != 100 {
			t.Errorf("Alice balance = %d, want 100 (no partial debit)", got)
		}
		if got, _ := bank.BalanceOf(ctx, "pool"); got != 0 {
			t.Errorf("pool balance = %d, want 0", got)
		}
	})

	t.Run("duplicate source accounts are charged cumulatively", func(t *testing.T) {
		bank := NewBank("pool")
		bank.Deposit("Alice", 100)
		bank.Authorize("Alice", 100)

		// 70 + 40 = 110 > 100, must fail even though each leg fits alone.
		err := bank.PullBatch(ctx, []string{"Alice", "Alice"}, []int64{70, 40}, "pool")
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds for cumulative charge, got %v", err)
		}

		if err := bank.PullBatch(ctx, []string{"Alice", "Alice"}, []int64{70, 30}, "pool"); err != nil {
			t.Fatalf("PullBatch failed: %v", err)
		}
		if got, _ := bank.BalanceOf(ctx, "pool"); got != 100 {
			t.Errorf("pool balance = %d, want 100", got)
		}
	})

	t.Run("mismatched lengths rejected", func(t *testing.T) {
		bank := NewBank("pool")
		if err := bank.PullBatch(ctx, []string{"Alice", "Bob"}, []int64{10}, "pool"); err == nil {
			t.Error("expected error for mismatched batch, got nil")
		}
	})
}

func TestBankPush(t *testing.T) {
	ctx := context.Background()
	bank := NewBank("pool")
	bank.Deposit("pool", 80)

	if err := bank.Push(ctx, "admin", 50); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if got, _ := bank.BalanceOf(ctx, "admin"); got != 50 {
		t.Errorf("admin balance = %d, want 50", got)
	}

	err := bank.Push(ctx, "admin", 50)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}
