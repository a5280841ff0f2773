package models

import "time"

// CorrectionInput is what a caller supplies when a transaction's category is
// changed after its initial categorization.
type CorrectionInput struct {
	TransactionID int64  `json:"transaction_id"`
	OldCategoryID *int64 `json:"old_category_id,omitempty"`
	NewCategoryID int64  `json:"new_category_id"`
	Description   string `json:"description"`
}

// Correction is an entry of the append-only correction log.
type Correction struct {
	ID            string    `json:"id"`
	TransactionID int64     `json:"transaction_id"`
	OldCategoryID *int64    `json:"old_category_id,omitempty"`
	NewCategoryID int64     `json:"new_category_id"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}
