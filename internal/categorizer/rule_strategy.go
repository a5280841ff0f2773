package categorizer

import (
	"context"

	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/rules"
)

// RuleStrategy fuzzy-matches the description against learned rules. A match
// increments the rule's usage counter, so callers must hold the engine's
// write lock.
type RuleStrategy struct {
	matcher   *rules.Matcher
	threshold float64
}

// NewRuleStrategy creates the rule tier.
func NewRuleStrategy(matcher *rules.Matcher, threshold float64) *RuleStrategy {
	return &RuleStrategy{matcher: matcher, threshold: threshold}
}

// Name returns the name of the strategy.
func (s *RuleStrategy) Name() string {
	return "Rule"
}

// Categorize returns the category of the closest rule at or above the threshold.
func (s *RuleStrategy) Categorize(ctx context.Context, normalized string) (models.Prediction, bool, error) {
	match, ok, err := s.matcher.Match(ctx, normalized, s.threshold)
	if err != nil || !ok {
		return models.Prediction{}, false, err
	}
	return models.Prediction{
		CategoryID: match.Rule.CategoryID,
		Score:      match.Similarity,
		Tier:       models.TierRule,
	}, true, nil
}
