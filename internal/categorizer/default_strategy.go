package categorizer

import (
	"context"

	"fjacquet/fintrack/internal/models"
)

// DefaultCategoryStrategy falls back to a category looked up by name. It finds
// nothing when the catalog has no such category.
type DefaultCategoryStrategy struct {
	resolver CategoryResolver
	name     string
}

// NewDefaultCategoryStrategy creates the fallback tier for the named category.
func NewDefaultCategoryStrategy(resolver CategoryResolver, name string) *DefaultCategoryStrategy {
	if name == "" {
		name = models.DefaultCategoryName
	}
	return &DefaultCategoryStrategy{resolver: resolver, name: name}
}

// Name returns the name of the strategy.
func (s *DefaultCategoryStrategy) Name() string {
	return "Default"
}

// Categorize resolves the default category.
func (s *DefaultCategoryStrategy) Categorize(_ context.Context, _ string) (models.Prediction, bool, error) {
	if s.resolver == nil {
		return models.Prediction{}, false, nil
	}
	id, ok := s.resolver.CategoryIDByName(s.name)
	if !ok {
		return models.Prediction{}, false, nil
	}
	return models.Prediction{CategoryID: id, Tier: models.TierDefault}, true, nil
}
