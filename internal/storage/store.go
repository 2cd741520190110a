// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/openpool/purseledger/internal/models"
)

// Store defines the interface for ledger persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	// InsertPurchase persists a new purchase record at its assigned ID.
	InsertPurchase(ctx context.Context, p *models.Purchase) error

	// ClearPurchase zeroes the record at the given ID without removing the
	// slot, mirroring the ledger's tombstone deletion.
	ClearPurchase(ctx context.Context, id uint64) error

	// LoadPurchases returns every record slot in ID order, including
	// cleared ones, so the ledger can rebuild its state at startup.
	LoadPurchases(ctx context.Context) ([]models.Purchase, error)

	// AppendEvent adds an entry to the append-only event log.
	AppendEvent(ctx context.Context, kind string, payload []byte) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns (nil, nil) if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByName retrieves a user by account name.
	// Returns (nil, nil) if no such user exists.
	GetUserByName(ctx context.Context, name string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
