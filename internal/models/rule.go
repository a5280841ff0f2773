package models

import "time"

// CategorizationRule is a learned normalized-pattern to category mapping.
// Pattern is unique across the rule store.
type CategorizationRule struct {
	ID           int64     `json:"id"`
	Pattern      string    `json:"pattern"`
	CategoryID   int64     `json:"category_id"`
	Confidence   float64   `json:"confidence"`
	TimesApplied int       `json:"times_applied"`
	TimesCorrect int       `json:"times_correct"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecomputeConfidence derives Confidence from the counters. A rule that was
// never applied keeps a confidence of zero.
func (r *CategorizationRule) RecomputeConfidence() {
	if r.TimesApplied <= 0 {
		r.Confidence = 0
		return
	}
	r.Confidence = float64(r.TimesCorrect) / float64(r.TimesApplied)
}

// NewRule returns a freshly learned rule: applied once, correct once.
func NewRule(pattern string, categoryID int64) CategorizationRule {
	r := CategorizationRule{
		Pattern:      pattern,
		CategoryID:   categoryID,
		TimesApplied: 1,
		TimesCorrect: 1,
	}
	r.RecomputeConfidence()
	return r
}

// Reaffirm records that a correction confirmed the rule's current category.
// It counts as one more application that turned out correct.
func (r *CategorizationRule) Reaffirm() {
	r.TimesApplied++
	r.TimesCorrect++
	r.RecomputeConfidence()
}

// Reassign points the rule to a different category and restarts its counters.
func (r *CategorizationRule) Reassign(categoryID int64) {
	r.CategoryID = categoryID
	r.TimesApplied = 1
	r.TimesCorrect = 1
	r.RecomputeConfidence()
}

// MarkApplied records that the rule was matched and used for a prediction.
func (r *CategorizationRule) MarkApplied() {
	r.TimesApplied++
	r.RecomputeConfidence()
}
