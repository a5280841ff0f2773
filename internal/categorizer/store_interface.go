package categorizer

import (
	"context"

	"fjacquet/fintrack/internal/models"
	"fjacquet/fintrack/internal/storage"
)

// TrainingSource supplies every labeled description available for training.
type TrainingSource interface {
	ListLabeledDescriptions(ctx context.Context) ([]models.LabeledDescription, error)
}

// CategoryResolver maps a category name to its id.
type CategoryResolver interface {
	CategoryIDByName(name string) (int64, bool)
}

// CorrectionLog is the append-only audit trail of user corrections.
type CorrectionLog interface {
	AppendCorrection(ctx context.Context, c *models.Correction) error
	CountCorrections(ctx context.Context) (int, error)
}

// Transactor runs fn inside a single database transaction. The store passed
// to fn serves as both correction log and rule repository.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *storage.Store) error) error
}

// Model is the statistical tier as seen by the engine.
type Model interface {
	Train(samples []models.LabeledDescription) (bool, error)
	Predict(description string, threshold float64) (models.Prediction, bool)
	UpdateWithCorrection(description string, categoryID int64) (bool, error)
	Stats() models.ClassifierStats
}
