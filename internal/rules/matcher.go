// Package rules implements the self-improving rule tier: a store of learned
// normalized-pattern to category rules, matched by string similarity.
package rules

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/storage"
)

// Repository is the persistence the matcher needs. ListRules must return rules
// in a stable order; ties between equally similar rules go to the first one.
type Repository interface {
	ListRules(ctx context.Context) ([]models.CategorizationRule, error)
	GetRuleByPattern(ctx context.Context, pattern string) (models.CategorizationRule, error)
	InsertRule(ctx context.Context, rule *models.CategorizationRule) error
	UpdateRule(ctx context.Context, rule *models.CategorizationRule) error
	RuleStats(ctx context.Context) (models.RuleStats, error)
}

// Match is the outcome of a successful fuzzy lookup.
type Match struct {
	Rule       models.CategorizationRule
	Similarity float64
}

// Matcher matches normalized descriptions against learned rules and learns
// new rules from corrections. Callers serialize mutating calls.
type Matcher struct {
	repo   Repository
	logger logging.Logger
}

// NewMatcher creates a Matcher over repo.
func NewMatcher(repo Repository, logger logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Matcher{repo: repo, logger: logger}
}

// WithRepository returns a Matcher sharing m's logger but bound to repo,
// typically a transaction-scoped repository.
func (m *Matcher) WithRepository(repo Repository) *Matcher {
	return &Matcher{repo: repo, logger: m.logger}
}

// Match finds the rule most similar to normalized. The best rule is returned
// only when its similarity reaches threshold; in that case its times_applied
// counter is incremented and persisted before returning.
func (m *Matcher) Match(ctx context.Context, normalized string, threshold float64) (Match, bool, error) {
	if normalized == "" {
		return Match{}, false, nil
	}

	rules, err := m.repo.ListRules(ctx)
	if err != nil {
		return Match{}, false, err
	}

	bestIdx := -1
	bestScore := 0.0
	for i := range rules {
		score := Similarity(normalized, rules[i].Pattern)
		if bestIdx < 0 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	if bestIdx < 0 || bestScore < threshold {
		return Match{}, false, nil
	}

	rule := rules[bestIdx]
	rule.MarkApplied()
	if err := m.repo.UpdateRule(ctx, &rule); err != nil {
		return Match{}, false, fmt.Errorf("recording rule usage: %w", err)
	}

	m.logger.Debug("Rule matched",
		logging.Field{Key: logging.FieldPattern, Value: rule.Pattern},
		logging.Field{Key: logging.FieldCategoryID, Value: rule.CategoryID},
		logging.Field{Key: logging.FieldScore, Value: bestScore},
	)
	return Match{Rule: rule, Similarity: bestScore}, true, nil
}

// Upsert learns that normalized belongs to categoryID. A rule already pointing
// to categoryID is reaffirmed; a rule pointing elsewhere is reassigned with
// fresh counters; an unseen pattern becomes a new rule. An empty pattern is
// never stored and yields ok == false.
func (m *Matcher) Upsert(ctx context.Context, normalized string, categoryID int64) (rule models.CategorizationRule, ok bool, err error) {
	if normalized == "" {
		return models.CategorizationRule{}, false, nil
	}

	existing, err := m.repo.GetRuleByPattern(ctx, normalized)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		rule = models.NewRule(normalized, categoryID)
		if err := m.repo.InsertRule(ctx, &rule); err != nil {
			return models.CategorizationRule{}, false, err
		}
		m.logger.Debug("Rule created",
			logging.Field{Key: logging.FieldPattern, Value: normalized},
			logging.Field{Key: logging.FieldCategoryID, Value: categoryID},
		)
		return rule, true, nil
	case err != nil:
		return models.CategorizationRule{}, false, fmt.Errorf("looking up rule %q: %w", normalized, err)
	}

	if existing.CategoryID == categoryID {
		existing.Reaffirm()
	} else {
		m.logger.Debug("Rule reassigned",
			logging.Field{Key: logging.FieldPattern, Value: normalized},
			logging.Field{Key: logging.FieldOldCategoryID, Value: existing.CategoryID},
			logging.Field{Key: logging.FieldCategoryID, Value: categoryID},
		)
		existing.Reassign(categoryID)
	}

	if err := m.repo.UpdateRule(ctx, &existing); err != nil {
		return models.CategorizationRule{}, false, err
	}
	return existing, true, nil
}

// Stats returns the rule count and mean confidence.
func (m *Matcher) Stats(ctx context.Context) (models.RuleStats, error) {
	return m.repo.RuleStats(ctx)
}

// List returns all rules in matching order.
func (m *Matcher) List(ctx context.Context) ([]models.CategorizationRule, error) {
	return m.repo.ListRules(ctx)
}
