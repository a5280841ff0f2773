package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fjacquet/fintrack/internal/models"

	"github.com/google/uuid"
)

// AppendCorrection adds an entry to the correction log. Missing ids and
// timestamps are assigned here; entries are never updated or deleted.
func (s *Store) AppendCorrection(ctx context.Context, c *models.Correction) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}

	var old sql.NullInt64
	if c.OldCategoryID != nil {
		old = sql.NullInt64{Int64: *c.OldCategoryID, Valid: true}
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO user_corrections (id, transaction_id, old_category_id, new_category_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.TransactionID, old, c.NewCategoryID, c.Description, c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("appending correction for transaction %d: %w", c.TransactionID, err)
	}
	return nil
}

// CountCorrections returns the size of the correction log.
func (s *Store) CountCorrections(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_corrections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting corrections: %w", err)
	}
	return n, nil
}

// ListCorrections returns the most recent corrections, newest first.
func (s *Store) ListCorrections(ctx context.Context, limit int) ([]models.Correction, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, transaction_id, old_category_id, new_category_id, description, created_at
		FROM user_corrections ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing corrections: %w", err)
	}
	defer rows.Close()

	var out []models.Correction
	for rows.Next() {
		var c models.Correction
		var old sql.NullInt64
		var createdAt string
		if err := rows.Scan(&c.ID, &c.TransactionID, &old, &c.NewCategoryID, &c.Description, &createdAt); err != nil {
			return nil, err
		}
		if old.Valid {
			v := old.Int64
			c.OldCategoryID = &v
		}
		if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
