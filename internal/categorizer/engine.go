// Package categorizer assigns categories to transaction descriptions by
// running three tiers in order:
// 1. A TF-IDF centroid classifier trained on labeled transactions
// 2. Fuzzy matching against rules learned from user corrections
// 3. A configurable default category
//
// Corrections feed both learning tiers so the engine improves as it is used.
package categorizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/rules"
	"fjacquet/fintrack/internal/storage"
	"fjacquet/fintrack/internal/textutils"
)

// Config holds the thresholds of the engine.
type Config struct {
	SimilarityThreshold float64
	RuleThreshold       float64
	MinTrainingSamples  int
	DefaultCategory     string
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: models.DefaultSimilarityThreshold,
		RuleThreshold:       models.DefaultSimilarityThreshold,
		MinTrainingSamples:  models.DefaultMinTrainingSamples,
		DefaultCategory:     models.DefaultCategoryName,
	}
}

// Dependencies are the collaborators of an Engine. Transactor is optional;
// without it a correction is recorded with two separate writes.
type Dependencies struct {
	Model       Model
	Rules       *rules.Matcher
	Training    TrainingSource
	Categories  CategoryResolver
	Corrections CorrectionLog
	Transactor  Transactor
}

// tier pairs a strategy with the lock it needs.
type tier struct {
	strategy  CategorizationStrategy
	exclusive bool
}

// Engine is the hybrid categorizer. It is safe for concurrent use: tiers that
// only read share a read lock, anything that mutates learned state takes the
// write lock.
type Engine struct {
	mu sync.RWMutex

	config      Config
	model       Model
	rules       *rules.Matcher
	training    TrainingSource
	corrections CorrectionLog
	transactor  Transactor
	tiers       []tier
	logger      logging.Logger
}

// NewEngine wires an Engine from its dependencies.
func NewEngine(config Config, deps Dependencies, logger logging.Logger) (*Engine, error) {
	if deps.Model == nil {
		return nil, errors.New("categorizer: model is required")
	}
	if deps.Rules == nil {
		return nil, errors.New("categorizer: rule matcher is required")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	if config.MinTrainingSamples < 1 {
		config.MinTrainingSamples = models.DefaultMinTrainingSamples
	}
	if config.DefaultCategory == "" {
		config.DefaultCategory = models.DefaultCategoryName
	}

	e := &Engine{
		config:      config,
		model:       deps.Model,
		rules:       deps.Rules,
		training:    deps.Training,
		corrections: deps.Corrections,
		transactor:  deps.Transactor,
		logger:      logger,
	}
	e.tiers = []tier{
		{strategy: NewMachineLearningStrategy(deps.Model, config.SimilarityThreshold)},
		{strategy: NewRuleStrategy(deps.Rules, config.RuleThreshold), exclusive: true},
		{strategy: NewDefaultCategoryStrategy(deps.Categories, config.DefaultCategory)},
	}
	return e, nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.config
}

// PredictCategory returns the category for description, or false when no tier
// produced one (no confident match and no default category in the catalog).
// A failing tier is skipped; its error is only returned when no later tier
// found a category.
func (e *Engine) PredictCategory(ctx context.Context, description string) (models.Prediction, bool, error) {
	normalized := textutils.Normalize(description)

	var results StrategyResults
	for _, t := range e.tiers {
		if err := ctx.Err(); err != nil {
			return models.Prediction{}, false, err
		}

		pred, found, err := e.runTier(ctx, t, normalized)
		results.Add(t.strategy.Name(), pred, found, err)
		if err != nil {
			e.logger.WithError(err).Warn("Categorization tier failed",
				logging.Field{Key: logging.FieldStrategy, Value: t.strategy.Name()})
			continue
		}
		if found {
			break
		}
	}

	e.logger.Debug("Categorization attempts",
		logging.Field{Key: logging.FieldDescription, Value: normalized},
		logging.Field{Key: logging.FieldStatus, Value: results.Summary()})

	if pred, ok := results.GetBestResult(); ok {
		return pred, true, nil
	}
	if errs := results.GetErrors(); len(errs) > 0 {
		return models.Prediction{}, false, errors.Join(errs...)
	}
	return models.Prediction{}, false, nil
}

func (e *Engine) runTier(ctx context.Context, t tier, normalized string) (models.Prediction, bool, error) {
	if t.exclusive {
		e.mu.Lock()
		defer e.mu.Unlock()
	} else {
		e.mu.RLock()
		defer e.mu.RUnlock()
	}
	return t.strategy.Categorize(ctx, normalized)
}

// BatchPrediction is the outcome for one description of PredictBatch.
type BatchPrediction struct {
	Description string            `json:"description"`
	Prediction  models.Prediction `json:"prediction"`
	Found       bool              `json:"found"`
}

// PredictBatch categorizes descriptions one after another. It stops at the
// first hard error or when ctx is cancelled.
func (e *Engine) PredictBatch(ctx context.Context, descriptions []string) ([]BatchPrediction, error) {
	out := make([]BatchPrediction, 0, len(descriptions))
	for _, d := range descriptions {
		pred, found, err := e.PredictCategory(ctx, d)
		if err != nil {
			return out, fmt.Errorf("predicting %q: %w", d, err)
		}
		out = append(out, BatchPrediction{Description: d, Prediction: pred, Found: found})
	}
	return out, nil
}

// LearnFromCorrection records a user correction and feeds it to both learning
// tiers. The correction event and the rule update are written together when a
// Transactor is configured. Persistence failures do not roll back in-memory
// learning; they are returned as *categorizererror.PersistenceWarning.
func (e *Engine) LearnFromCorrection(ctx context.Context, in models.CorrectionInput) error {
	if in.TransactionID <= 0 {
		return fmt.Errorf("%w: transaction id must be positive, got %d", categorizererror.ErrInvalidCorrection, in.TransactionID)
	}
	if in.NewCategoryID <= 0 {
		return fmt.Errorf("%w: new category id must be positive, got %d", categorizererror.ErrInvalidCorrection, in.NewCategoryID)
	}

	start := time.Now()
	normalized := textutils.Normalize(in.Description)

	e.mu.Lock()
	defer e.mu.Unlock()

	var warnings []error

	if err := e.recordCorrection(ctx, in, normalized); err != nil {
		e.logger.WithError(err).Warn("Failed to persist correction",
			logging.Field{Key: logging.FieldTransactionID, Value: in.TransactionID})
		warnings = append(warnings, &categorizererror.PersistenceWarning{
			Err: &categorizererror.PersistenceError{Op: "record correction", Err: err},
		})
	}

	retrained, err := e.model.UpdateWithCorrection(in.Description, in.NewCategoryID)
	if err != nil {
		warnings = append(warnings, err)
	}

	fields := []logging.Field{
		{Key: logging.FieldTransactionID, Value: in.TransactionID},
		{Key: logging.FieldCategoryID, Value: in.NewCategoryID},
		{Key: "retrained", Value: retrained},
		{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	}
	if in.OldCategoryID != nil {
		fields = append(fields, logging.Field{Key: logging.FieldOldCategoryID, Value: *in.OldCategoryID})
	}
	e.logger.Info("Learned from correction", fields...)

	return errors.Join(warnings...)
}

func (e *Engine) recordCorrection(ctx context.Context, in models.CorrectionInput, normalized string) error {
	record := func(log CorrectionLog, matcher *rules.Matcher) error {
		if log != nil {
			if err := log.AppendCorrection(ctx, &models.Correction{
				TransactionID: in.TransactionID,
				OldCategoryID: in.OldCategoryID,
				NewCategoryID: in.NewCategoryID,
				Description:   in.Description,
			}); err != nil {
				return err
			}
		}
		_, _, err := matcher.Upsert(ctx, normalized, in.NewCategoryID)
		return err
	}

	if e.transactor == nil {
		return record(e.corrections, e.rules)
	}
	return e.transactor.WithinTx(ctx, func(tx *storage.Store) error {
		return record(tx, e.rules.WithRepository(tx))
	})
}

// TrainMLModel retrains the classifier on every labeled transaction. Too
// little data is reported through the result, not as an error. A non-nil
// error alongside a successful result is a persistence warning.
func (e *Engine) TrainMLModel(ctx context.Context) (models.TrainResult, error) {
	if e.training == nil {
		return models.TrainResult{}, errors.New("categorizer: no training source configured")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	samples, err := e.training.ListLabeledDescriptions(ctx)
	if err != nil {
		return models.TrainResult{}, fmt.Errorf("loading training data: %w", err)
	}

	minSamples := e.config.MinTrainingSamples
	if len(samples) < minSamples {
		e.logger.Info("Not enough training data",
			logging.Field{Key: logging.FieldCount, Value: len(samples)},
			logging.Field{Key: logging.FieldMinSamples, Value: minSamples})
		return models.TrainResult{
			Success:      false,
			Message:      fmt.Sprintf("Not enough training data. Need at least %d transactions.", minSamples),
			CurrentCount: len(samples),
		}, nil
	}

	ok, err := e.model.Train(samples)
	stats := e.model.Stats()
	if !ok {
		e.logger.WithError(err).Info("Training skipped")
		return models.TrainResult{
			Success:      false,
			Message:      "Training failed. Not enough diverse data.",
			CurrentCount: len(samples),
			Stats:        &stats,
		}, nil
	}

	return models.TrainResult{
		Success:      true,
		Message:      "ML model trained successfully",
		CurrentCount: len(samples),
		Stats:        &stats,
	}, err
}

// ListRules returns the learned rules for diagnostics.
func (e *Engine) ListRules(ctx context.Context) ([]models.CategorizationRule, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules.List(ctx)
}

// GetStats reports diagnostics for both tiers.
func (e *Engine) GetStats(ctx context.Context) (models.EngineStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ruleStats, err := e.rules.Stats(ctx)
	if err != nil {
		return models.EngineStats{}, fmt.Errorf("rule stats: %w", err)
	}

	corrections := 0
	if e.corrections != nil {
		corrections, err = e.corrections.CountCorrections(ctx)
		if err != nil {
			return models.EngineStats{}, fmt.Errorf("counting corrections: %w", err)
		}
	}

	return models.EngineStats{
		RuleBased:       ruleStats,
		ML:              e.model.Stats(),
		CorrectionCount: corrections,
		Threshold:       e.config.SimilarityThreshold,
		RuleThreshold:   e.config.RuleThreshold,
	}, nil
}
