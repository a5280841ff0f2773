package categorizer

import (
	"context"

	"fjacquet/fintrack/internal/models"
)

// CategorizationStrategy is one tier of the categorization pipeline.
// Strategies run in a fixed order and the first one that finds a category
// wins.
type CategorizationStrategy interface {
	// Categorize attempts to assign a category to an already normalized
	// description.
	//
	// Returns:
	//   - models.Prediction: The chosen category (only valid if found is true)
	//   - bool: Whether this tier produced a category
	//   - error: Any error encountered; a plain miss is not an error
	Categorize(ctx context.Context, normalized string) (models.Prediction, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
