package models

// DefaultCategoryName is the category the engine falls back to when no tier
// produced a confident match.
const DefaultCategoryName = "Other"

// Classifier defaults.
const (
	DefaultMinTrainingSamples  = 3
	DefaultSimilarityThreshold = 0.7
	DefaultMaxFeatures         = 100
)

// ModelFormatVersion is the schema version written into persisted model artifacts.
const ModelFormatVersion = 1

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionDataFile   = 0600
)
