package logging

// Standardized field names for structured logging.
const (
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldOldCategoryID = "old_category_id"
	FieldDescription   = "description"
	FieldPattern       = "pattern"
	FieldScore         = "score"
	FieldThreshold     = "threshold"
	FieldTier          = "tier"
	FieldStrategy      = "strategy"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldCount         = "count"
	FieldMinSamples    = "min_samples"
	FieldFile          = "file_path"
	FieldDuration      = "duration_ms"
	FieldAddress       = "address"
)
