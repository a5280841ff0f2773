package categorizer

import (
	"context"

	"fjacquet/fintrack/internal/models"
)

// MachineLearningStrategy asks the statistical classifier for a category.
type MachineLearningStrategy struct {
	model     Model
	threshold float64
}

// NewMachineLearningStrategy creates the statistical tier.
func NewMachineLearningStrategy(model Model, threshold float64) *MachineLearningStrategy {
	return &MachineLearningStrategy{model: model, threshold: threshold}
}

// Name returns the name of the strategy.
func (s *MachineLearningStrategy) Name() string {
	return "MachineLearning"
}

// Categorize returns the classifier's prediction when it clears the threshold.
func (s *MachineLearningStrategy) Categorize(_ context.Context, normalized string) (models.Prediction, bool, error) {
	if s.model == nil {
		return models.Prediction{}, false, nil
	}
	pred, ok := s.model.Predict(normalized, s.threshold)
	return pred, ok, nil
}
