package models

// Tiers of the categorization engine, in evaluation order.
const (
	TierMachineLearning = "ml"
	TierRule            = "rule"
	TierDefault         = "default"
)

// Prediction is a category chosen by one of the engine tiers. Absence of a
// prediction is signalled by the accompanying boolean, never by a zero id.
type Prediction struct {
	CategoryID int64   `json:"category_id"`
	Score      float64 `json:"score"`
	Tier       string  `json:"tier"`
}
