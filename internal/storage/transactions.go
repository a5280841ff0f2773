package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/fintrack/internal/models"
)

// LabeledTransaction is a transaction row kept as classifier training data.
// CategoryID is nil for transactions that were never categorized.
type LabeledTransaction struct {
	ExternalID  string
	Description string
	CategoryID  *int64
	Amount      string
	BookedOn    string
}

// InsertLabeledTransactions stores rows in a single transaction and returns
// how many were written.
func (s *Store) InsertLabeledTransactions(ctx context.Context, txs []LabeledTransaction) (int, error) {
	written := 0
	err := s.WithinTx(ctx, func(tx *Store) error {
		now := tx.timestamp()
		for _, t := range txs {
			var cat sql.NullInt64
			if t.CategoryID != nil {
				cat = sql.NullInt64{Int64: *t.CategoryID, Valid: true}
			}
			if _, err := tx.q.ExecContext(ctx, `
				INSERT INTO labeled_transactions (external_id, description, category_id, amount, booked_on, imported_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				t.ExternalID, t.Description, cat, t.Amount, t.BookedOn, now,
			); err != nil {
				return fmt.Errorf("inserting transaction %q: %w", t.Description, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// ListLabeledDescriptions returns every description that has a category id,
// in insertion order.
func (s *Store) ListLabeledDescriptions(ctx context.Context) ([]models.LabeledDescription, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT description, category_id FROM labeled_transactions
		WHERE category_id IS NOT NULL ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing labeled descriptions: %w", err)
	}
	defer rows.Close()

	var out []models.LabeledDescription
	for rows.Next() {
		var d models.LabeledDescription
		if err := rows.Scan(&d.Description, &d.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
