package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
//
// The Name field is the identity that appears in purchase records and is
// compared against the configured administrator account; it must be unique.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the account name. Payers and contributors are recorded by
	// this name, and JWT tokens carry it as the caller identity.
	Name string

	// Email is the user's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a User with a fresh ID and creation timestamp.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
