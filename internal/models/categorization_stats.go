package models

import (
	"fjacquet/fintrack/internal/logging"
)

// ModelState is the complete trained state of the statistical classifier.
// Every centroid must be reproducible by vectorizing Corpus[id] with
// Vocabulary and IDF.
type ModelState struct {
	Version    int
	Trained    bool
	Vocabulary []string
	IDF        []float64
	Centroids  map[int64][]float64
	Corpus     map[int64][]string
}

// RuleStats summarizes the rule tier.
type RuleStats struct {
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ClassifierStats summarizes the statistical tier.
type ClassifierStats struct {
	Trained        bool `json:"trained"`
	CategoryCount  int  `json:"category_count"`
	SampleCount    int  `json:"sample_count"`
	MinSamples     int  `json:"min_samples"`
	VocabularySize int  `json:"vocabulary_size"`
}

// EngineStats is the read-only diagnostics snapshot of both tiers.
type EngineStats struct {
	RuleBased       RuleStats       `json:"rule_based"`
	ML              ClassifierStats `json:"ml"`
	CorrectionCount int             `json:"correction_count"`
	Threshold       float64         `json:"threshold"`
	RuleThreshold   float64         `json:"rule_threshold"`
}

// TrainResult reports the outcome of a training request.
type TrainResult struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	CurrentCount int              `json:"current_count"`
	Stats        *ClassifierStats `json:"stats,omitempty"`
}

// LogSummary logs the snapshot at info level.
func (s EngineStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: "rules", Value: s.RuleBased.Count},
		logging.Field{Key: "avg_rule_confidence", Value: s.RuleBased.AvgConfidence},
		logging.Field{Key: "ml_trained", Value: s.ML.Trained},
		logging.Field{Key: "ml_categories", Value: s.ML.CategoryCount},
		logging.Field{Key: "ml_samples", Value: s.ML.SampleCount},
		logging.Field{Key: "corrections", Value: s.CorrectionCount},
		logging.Field{Key: logging.FieldThreshold, Value: s.Threshold},
	)
}
