package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openpool/purseledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "purseledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStorePurchases(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("InsertPurchase and LoadPurchases round-trip", func(t *testing.T) {
		single := &models.Purchase{
			ID:        0,
			Amount:    100,
			Payer:     "Alice",
			CreatedAt: 1700000000,
		}
		split := &models.Purchase{
			ID:            1,
			Amount:        100,
			IsSplit:       true,
			Contributors:  []string{"Alice", "Bob"},
			Contributions: []int64{60, 40},
			CreatedAt:     1700000001,
		}

		if err := store.InsertPurchase(ctx, single); err != nil {
			t.Fatalf("InsertPurchase failed: %v", err)
		}
		if err := store.InsertPurchase(ctx, split); err != nil {
			t.Fatalf("InsertPurchase failed: %v", err)
		}

		loaded, err := store.LoadPurchases(ctx)
		if err != nil {
			t.Fatalf("LoadPurchases failed: %v", err)
		}
		if len(loaded) != 2 {
			t.Fatalf("loaded %d purchases, want 2", len(loaded))
		}

		if loaded[0].Payer != "Alice" || loaded[0].Amount != 100 || loaded[0].IsSplit {
			t.Errorf("unexpected single-payer record: %+v", loaded[0])
		}
		if !loaded[1].IsSplit {
			t.Error("expected IsSplit = true on loaded split record")
		}
		if len(loaded[1].Contributors) != 2 || loaded[1].Contributors[1] != "Bob" {
			t.Errorf("contributors = %v, want [Alice Bob]", loaded[1].Contributors)
		}
		if len(loaded[1].Contributions) != 2 || loaded[1].Contributions[0] != 60 {
			t.Errorf("contributions = %v, want [60 40]", loaded[1].Contributions)
		}
	})

	t.Run("ClearPurchase zeroes the row but keeps the slot", func(t *testing.T) {
		if err := store.ClearPurchase(ctx, 1); err != nil {
			t.Fatalf("ClearPurchase failed: %v", err)
		}

		loaded, err := store.LoadPurchases(ctx)
		if err != nil {
			t.Fatalf("LoadPurchases failed: %v", err)
		}
		if len(loaded) != 2 {
			t.Fatalf("loaded %d purchases, want 2 (slot must survive)", len(loaded))
		}
		if !loaded[1].IsZero() {
			t.Errorf("expected zero-value record after clear, got %+v", loaded[1])
		}
	})

	t.Run("ClearPurchase on unknown id fails", func(t *testing.T) {
		if err := store.ClearPurchase(ctx, 42); err == nil {
			t.Error("expected error for unknown id, got nil")
		}
	})
}

func TestSQLiteStoreEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AppendEvent(ctx, "purchase_added", []byte(`{"id":0,"amount":100}`)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent(ctx, "purchase_deleted", []byte(`{"id":0}`)); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	n, err := store.CountEvents(ctx, "purchase_added")
	if err != nil {
		t.Fatalf("CountEvents failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purchase_added count = %d, want 1", n)
	}

	n, err = store.CountEvents(ctx, "")
	if err != nil {
		t.Fatalf("CountEvents failed: %v", err)
	}
	if n != 2 {
		t.Errorf("total event count = %d, want 2", n)
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("lookup by email, name, and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.Name != "Alice" {
			t.Errorf("unexpected user by email: %+v", byEmail)
		}

		byName, err := store.GetUserByName(ctx, "Alice")
		if err != nil {
			t.Fatalf("GetUserByName failed: %v", err)
		}
		if byName == nil || byName.Email != "alice@example.com" {
			t.Errorf("unexpected user by name: %+v", byName)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.ID != user.ID {
			t.Errorf("unexpected user by id: %+v", byID)
		}
	})

	t.Run("missing user returns nil without error", func(t *testing.T) {
		missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for missing user, got %+v", missing)
		}
	})

	t.Run("duplicate account name rejected", func(t *testing.T) {
		dup := models.NewUser("alice2@example.com", "Alice", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected error for duplicate name, got nil")
		}
	})
}
