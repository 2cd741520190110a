package sqlite

import (
	"context"
	"fmt"

	"github.com/openpool/purseledger/internal/models"
)

// InsertPurchase persists a new purchase record and its contribution rows.
func (s *SQLiteStore) InsertPurchase(ctx context.Context, p *models.Purchase) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO purchases (id, amount, payer, is_split, created_at) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.Amount, p.Payer, p.IsSplit, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	for i, contributor := range p.Contributors {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO contributions (purchase_id, position, contributor, amount) VALUES (?, ?, ?, ?)",
			p.ID, i, contributor, p.Contributions[i],
		)
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ClearPurchase zeroes the record at id, keeping its row so the id stays
// assigned and is never reused.
func (s *SQLiteStore) ClearPurchase(ctx context.Context, id uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE purchases SET amount = 0, payer = '', is_split = 0, created_at = 0 WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear purchase: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check cleared rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("purchase not found: %d", id)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM contributions WHERE purchase_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear contributions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadPurchases returns every record slot in id order, including cleared
// ones. Ids must be dense starting at zero; a gap means the table was
// tampered with and is rejected.
func (s *SQLiteStore) LoadPurchases(ctx context.Context) ([]models.Purchase, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, amount, payer, is_split, created_at FROM purchases ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.Amount, &p.Payer, &p.IsSplit, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		if p.ID != uint64(len(purchases)) {
			return nil, fmt.Errorf("purchase ids not dense: found %d at slot %d", p.ID, len(purchases))
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	contribRows, err := s.db.QueryContext(ctx,
		"SELECT purchase_id, contributor, amount FROM contributions ORDER BY purchase_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}
	defer contribRows.Close()

	for contribRows.Next() {
		var (
			purchaseID  uint64
			contributor string
			amount      int64
		)
		if err := contribRows.Scan(&purchaseID, &contributor, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		if purchaseID >= uint64(len(purchases)) {
			return nil, fmt.Errorf("contribution references unknown purchase %d", purchaseID)
		}
		p := &purchases[purchaseID]
		p.Contributors = append(p.Contributors, contributor)
		p.Contributions = append(p.Contributions, amount)
	}
	if err := contribRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return purchases, nil
}
