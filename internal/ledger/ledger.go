// Package ledger implements the purchase ledger over a shared pool of funds.
//
// The ledger owns an append-indexed collection of purchase records, moves
// funds through a transfer collaborator, and restricts withdrawal and
// deletion to a single administrator account. Operations are serialized:
// each add/remove/withdraw runs to completion, including its external
// transfer calls, before the next operation's effects are observable.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/openpool/purseledger/internal/models"
	"github.com/openpool/purseledger/internal/storage"
	"github.com/openpool/purseledger/internal/transfer"
)

// Ledger records purchases funded from a shared pool.
//
// Record IDs are dense, zero-based, and never reused. Deletion clears a
// record to its zero value but keeps the slot; the record counter only ever
// increases.
type Ledger struct {
	mu      sync.Mutex
	records []models.Purchase
	admin   string
	pool    string
	svc     transfer.Service
	store   storage.Store // nil disables persistence
	subs    []Subscriber
}

// New creates a Ledger administered by the given account, pooling funds in
// the pool account held at the transfer service. If store is non-nil,
// existing records are loaded from it and all mutations are written through.
func New(ctx context.Context, admin, pool string, svc transfer.Service, store storage.Store) (*Ledger, error) {
	if admin == "" {
		return nil, fmt.Errorf("admin account required")
	}
	if pool == "" {
		return nil, fmt.Errorf("pool account required")
	}
	if svc == nil {
		return nil, fmt.Errorf("transfer service required")
	}

	l := &Ledger{
		admin: admin,
		pool:  pool,
		svc:   svc,
		store: store,
	}

	if store != nil {
		records, err := store.LoadPurchases(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load purchases: %w", err)
		}
		l.records = records
	}

	return l, nil
}

// Subscribe registers a subscriber for committed events. Not safe to call
// concurrently with ledger operations; wire subscribers up before serving.
func (l *Ledger) Subscribe(s Subscriber) {
	l.subs = append(l.subs, s)
}

// Admin returns the administrator account name.
func (l *Ledger) Admin() string { return l.admin }

// AddPurchase records a purchase funded by the caller alone (both sequences
// empty) or split across the given contributors. Contributions are paired
// positionally with contributors and must sum to amount exactly. Funds are
// pulled before the record is appended; on any failure no record is created.
//
// The split path performs one batch pull across all contributors. The
// transfer collaborator must make that batch all-or-nothing; the ledger
// keeps no rollback log of its own.
func (l *Ledger) AddPurchase(ctx context.Context, caller string, amount int64, contributors []string, contributions []int64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller == "" {
		return 0, fmt.Errorf("%w: caller identity required", ErrValidation)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: amount must be non-negative, got %d", ErrValidation, amount)
	}

	split := len(contributors) > 0 || len(contributions) > 0
	if split {
		if err := validateSplit(amount, contributors, contributions); err != nil {
			return 0, err
		}
		if err := l.svc.PullBatch(ctx, contributors, contributions, l.pool); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	} else {
		if err := l.svc.Pull(ctx, caller, l.pool, amount); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	rec := models.Purchase{
		ID:        uint64(len(l.records)),
		Amount:    amount,
		IsSplit:   split,
		CreatedAt: time.Now().Unix(),
	}
	if split {
		rec.Contributors = append([]string(nil), contributors...)
		rec.Contributions = append([]int64(nil), contributions...)
	} else {
		rec.Payer = caller
	}

	if l.store != nil {
		// Funds have already moved; a store failure here surfaces as an
		// error with no record appended, leaving the mismatch to the
		// collaborator's books to reconcile.
		if err := l.store.InsertPurchase(ctx, &rec); err != nil {
			return 0, fmt.Errorf("failed to persist purchase %d: %w", rec.ID, err)
		}
	}

	l.records = append(l.records, rec)
	l.emit(ctx, PurchaseAdded{
		ID:            rec.ID,
		Amount:        rec.Amount,
		Payer:         rec.Payer,
		Contributors:  rec.Contributors,
		Contributions: rec.Contributions,
	})
	return rec.ID, nil
}

// validateSplit checks contribution integrity for a split purchase.
func validateSplit(amount int64, contributors []string, contributions []int64) error {
	if len(contributors) != len(contributions) {
		return fmt.Errorf("%w: contribution count mismatch (%d contributors, %d contributions)",
			ErrValidation, len(contributors), len(contributions))
	}
	var sum int64
	for i, c := range contributors {
		if c == "" {
			return fmt.Errorf("%w: invalid contributor at position %d", ErrValidation, i)
		}
		if contributions[i] < 0 {
			return fmt.Errorf("%w: contribution at position %d must be non-negative, got %d",
				ErrValidation, i, contributions[i])
		}
		if sum > math.MaxInt64-contributions[i] {
			return fmt.Errorf("%w: contribution sum overflows", ErrValidation)
		}
		sum += contributions[i]
	}
	if sum != amount {
		return fmt.Errorf("%w: contribution sum mismatch (sum %d, amount %d)", ErrValidation, sum, amount)
	}
	return nil
}

// RemovePurchase clears the record at id to its zero value. Admin only.
// The slot survives and the record counter is unchanged, so the ID is never
// reused. Clearing an already-cleared ID succeeds and re-emits the event.
// No funds move.
func (l *Ledger) RemovePurchase(ctx context.Context, caller string, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return ErrUnauthorized
	}
	if id >= uint64(len(l.records)) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	if l.store != nil {
		if err := l.store.ClearPurchase(ctx, id); err != nil {
			return fmt.Errorf("failed to clear purchase %d: %w", id, err)
		}
	}

	l.records[id] = models.Purchase{}
	l.emit(ctx, PurchaseDeleted{ID: id})
	return nil
}

// Withdraw drains amount from the pool to the admin account. Admin only.
// It is independent of individual records: any pooled funds may be drained
// regardless of which purchases contributed them.
func (l *Ledger) Withdraw(ctx context.Context, caller string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return ErrUnauthorized
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative, got %d", ErrValidation, amount)
	}

	balance, err := l.svc.BalanceOf(ctx, l.pool)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if balance < amount {
		return fmt.Errorf("%w: held %d, requested %d", ErrInsufficientPool, balance, amount)
	}
	if err := l.svc.Push(ctx, l.admin, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	l.emit(ctx, FundsWithdrawn{Amount: amount})
	return nil
}

// RecordCount returns the number of IDs ever assigned. Deletions do not
// decrement it.
func (l *Ledger) RecordCount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(len(l.records))
}

// RecordAt returns the record stored at id. A cleared record is returned as
// zero-valued data, not an error; only IDs never assigned are ErrNotFound.
func (l *Ledger) RecordAt(id uint64) (models.Purchase, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if id >= uint64(len(l.records)) {
		return models.Purchase{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return copyPurchase(l.records[id]), nil
}

// Contributors returns the ordered contributor accounts for the record at
// id; empty for non-split or cleared records.
func (l *Ledger) Contributors(id uint64) ([]string, error) {
	rec, err := l.RecordAt(id)
	if err != nil {
		return nil, err
	}
	return rec.Contributors, nil
}

// Contributions returns the ordered contribution amounts for the record at
// id; empty for non-split or cleared records.
func (l *Ledger) Contributions(id uint64) ([]int64, error) {
	rec, err := l.RecordAt(id)
	if err != nil {
		return nil, err
	}
	return rec.Contributions, nil
}

// Records returns a copy of every record slot in ID order.
func (l *Ledger) Records() []models.Purchase {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Purchase, len(l.records))
	for i, rec := range l.records {
		out[i] = copyPurchase(rec)
	}
	return out
}

// PoolBalance returns the pool account's balance at the transfer service.
func (l *Ledger) PoolBalance(ctx context.Context) (int64, error) {
	return l.svc.BalanceOf(ctx, l.pool)
}

// emit persists the event to the append-only log and notifies subscribers.
// Called with the operation lock held, after the state mutation committed.
func (l *Ledger) emit(ctx context.Context, ev Event) {
	if l.store != nil {
		payload, err := json.Marshal(ev)
		if err == nil {
			err = l.store.AppendEvent(ctx, ev.Kind(), payload)
		}
		if err != nil {
			// The operation itself committed; the log entry is lost.
			slog.Error("Failed to append event", "kind", ev.Kind(), "error", err)
		}
	}
	for _, s := range l.subs {
		s.Notify(ev)
	}
}

func copyPurchase(p models.Purchase) models.Purchase {
	p.Contributors = append([]string(nil), p.Contributors...)
	p.Contributions = append([]int64(nil), p.Contributions...)
	return p
}
