package models

// Purchase represents one recorded purchase against the shared pool.
// Records are append-indexed: the ID is the position at which the record was
// inserted and is never reused, even after admin deletion.
type Purchase struct {
	// ID is the zero-based, dense, sequential identifier of the record.
	ID uint64

	// Amount is the total purchase value in the asset's minor unit.
	Amount int64

	// Payer is the account that funded the purchase when it is not split.
	// Empty for split purchases.
	Payer string

	// IsSplit is true iff the purchase has one or more co-contributors.
	IsSplit bool

	// Contributors lists the accounts that funded a split purchase, in the
	// order submitted. Duplicates are permitted. Empty iff not split.
	Contributors []string

	// Contributions holds the amount pulled from each contributor, paired
	// positionally with Contributors: Contributions[i] was funded by
	// Contributors[i]. Always the same length as Contributors.
	Contributions []int64

	// CreatedAt is the Unix timestamp when the record was appended.
	CreatedAt int64
}

// IsZero reports whether the record has been cleared by admin deletion
// (or was never populated).
func (p Purchase) IsZero() bool {
	return p.Amount == 0 && p.Payer == "" && !p.IsSplit && len(p.Contributors) == 0
}
