package ledger

import "errors"

var (
	// ErrUnauthorized is returned when a non-admin caller attempts an
	// admin-only operation.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound is returned when an operation references an ID that was
	// never assigned (id >= record count).
	ErrNotFound = errors.New("record does not exist")

	// ErrValidation is returned when a purchase fails its integrity checks
	// (length mismatch, empty contributor, sum mismatch, negative amount).
	ErrValidation = errors.New("validation failed")

	// ErrTransferFailed wraps a failure reported by the transfer
	// collaborator. No record is created when it occurs.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrInsufficientPool is returned when a withdrawal exceeds the pool's
	// held balance.
	ErrInsufficientPool = errors.New("insufficient pooled balance")
)
