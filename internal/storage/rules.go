package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fjacquet/fintrack/internal/models"
)

const ruleColumns = `id, pattern, category_id, confidence, times_applied, times_correct, created_at, updated_at`

// ListRules returns every rule in ascending id order. The order is stable and
// is the iteration order the fuzzy matcher relies on for tie breaking.
func (s *Store) ListRules(ctx context.Context) ([]models.CategorizationRule, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+ruleColumns+` FROM categorization_rules ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []models.CategorizationRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// GetRuleByPattern returns the rule whose normalized pattern equals pattern,
// or ErrNotFound.
func (s *Store) GetRuleByPattern(ctx context.Context, pattern string) (models.CategorizationRule, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM categorization_rules WHERE pattern = ?`, pattern)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CategorizationRule{}, ErrNotFound
	}
	return rule, err
}

// InsertRule stores a new rule and fills in its id and timestamps.
func (s *Store) InsertRule(ctx context.Context, rule *models.CategorizationRule) error {
	now := s.timestamp()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO categorization_rules (pattern, category_id, confidence, times_applied, times_correct, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rule.Pattern, rule.CategoryID, rule.Confidence, rule.TimesApplied, rule.TimesCorrect, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting rule %q: %w", rule.Pattern, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading rule id: %w", err)
	}

	ts, err := parseTimestamp(now)
	if err != nil {
		return err
	}
	rule.ID = id
	rule.CreatedAt = ts
	rule.UpdatedAt = ts
	return nil
}

// UpdateRule persists the category, counters and confidence of an existing rule.
func (s *Store) UpdateRule(ctx context.Context, rule *models.CategorizationRule) error {
	now := s.timestamp()
	res, err := s.q.ExecContext(ctx, `
		UPDATE categorization_rules
		SET category_id = ?, confidence = ?, times_applied = ?, times_correct = ?, updated_at = ?
		WHERE id = ?`,
		rule.CategoryID, rule.Confidence, rule.TimesApplied, rule.TimesCorrect, now, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule %d: %w", rule.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	ts, err := parseTimestamp(now)
	if err != nil {
		return err
	}
	rule.UpdatedAt = ts
	return nil
}

// RuleStats returns the number of rules and their mean confidence.
func (s *Store) RuleStats(ctx context.Context) (models.RuleStats, error) {
	var stats models.RuleStats
	var avg sql.NullFloat64
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*), AVG(confidence) FROM categorization_rules`).Scan(&stats.Count, &avg)
	if err != nil {
		return models.RuleStats{}, fmt.Errorf("computing rule stats: %w", err)
	}
	if avg.Valid {
		stats.AvgConfidence = avg.Float64
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (models.CategorizationRule, error) {
	var r models.CategorizationRule
	var createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.Confidence, &r.TimesApplied, &r.TimesCorrect, &createdAt, &updatedAt); err != nil {
		return models.CategorizationRule{}, err
	}
	var err error
	if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.CategorizationRule{}, err
	}
	if r.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.CategorizationRule{}, err
	}
	return r, nil
}
