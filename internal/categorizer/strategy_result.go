package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/fintrack/internal/models"
)

// StrategyResult represents the result of a categorization strategy attempt
type StrategyResult struct {
	Strategy   string
	Prediction models.Prediction
	Found      bool
	Error      error
}

// StrategyResults aggregates results from the strategies tried for one description
type StrategyResults struct {
	Results []StrategyResult
}

// Add records an attempt.
func (sr *StrategyResults) Add(strategy string, prediction models.Prediction, found bool, err error) {
	sr.Results = append(sr.Results, StrategyResult{
		Strategy:   strategy,
		Prediction: prediction,
		Found:      found,
		Error:      err,
	})
}

// GetBestResult returns the first successful result in evaluation order
func (sr StrategyResults) GetBestResult() (models.Prediction, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r.Prediction, true
		}
	}
	return models.Prediction{}, false
}

// GetErrors returns all errors encountered during strategy execution
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	var parts []string
	for _, result := range sr.Results {
		status := "failed"
		if result.Found {
			status = fmt.Sprintf("success(%d,%.3f)", result.Prediction.CategoryID, result.Prediction.Score)
		} else if result.Error == nil {
			status = "no_match"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
