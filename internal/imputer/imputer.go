// Package imputer fills missing fields on cleaned import records, either
// from a trained model artifact or from deterministic frequency/median
// heuristics. All entry points are pure over their inputs: they return
// new records and only ever fill fields that were missing, never
// overwriting a present value.
package imputer

import "hrdesk/internal/domain"

const (
	// DefaultYearStart is the canonical fallback when no peer statistics
	// yield a start year. (Historically the minimal-context path used
	// 2005 and the store-context path 2008; 2008 is now canonical.)
	DefaultYearStart = 2008

	// DefaultStartAge approximates age at career start for back-computing
	// a birth year from year_start.
	DefaultStartAge = 24

	// JobConfidenceFloor is the minimum class probability for a model
	// job-title prediction to be accepted; below it the field is left
	// for the heuristic pass.
	JobConfidenceFloor = 0.45
)

// Imputer is the model-artifact capability. Variants: ModelBacked when a
// trained artifact is available, FrequencyFallback when training degraded
// to plain frequency/median tables. Loaded once per import run.
type Imputer interface {
	Predict(batch []domain.ImportRecord) []domain.ImportRecord
}

// Stats carries optional summary statistics from the existing store,
// supplementing the current batch as imputation context.
type Stats struct {
	// KnownEmails seeds the collision set for synthesized addresses.
	KnownEmails []string
	// JobTitleCommon is the store-wide most frequent job title.
	JobTitleCommon string
	// ContractCommon is the store-wide most frequent contract type.
	ContractCommon string
	// YearStartMedian is the store-wide median start year; 0 = unknown.
	YearStartMedian int
}
