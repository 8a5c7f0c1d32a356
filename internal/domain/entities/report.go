package entities

import (
	"time"
)

// TermFrequency is one row of the top zero-result terms table. OriginalTerm
// keeps the display casing of the earliest-seen record for the group.
type TermFrequency struct {
	NormalizedTerm string  `json:"normalized_term"`
	OriginalTerm   string  `json:"original_term"`
	SearchCount    int     `json:"search_count"`
	Percentage     float64 `json:"percentage"`
}

// TypoSuggestion maps a zero-result term to its closest successful terms.
// Alternates are ordered best-first and exclude the primary suggestion.
type TypoSuggestion struct {
	ZeroResultTerm       string   `json:"zero_result_term"`
	SuggestedCorrection  string   `json:"suggested_correction"`
	AlternateSuggestions []string `json:"alternate_suggestions,omitempty"`
	Frequency            int      `json:"frequency"`
}

// Intent categories for zero-result queries, in rule priority order.
const (
	CategoryComparison  = "Comparison Query"
	CategoryPricing     = "Pricing Query"
	CategoryFeatureSpec = "Feature/Spec Query"
	CategorySingleWord  = "Single Word (Broad)"
	CategoryOther       = "Other"
)

// CategoryCount is the per-category breakdown of zero-result searches.
type CategoryCount struct {
	Category    string `json:"category"`
	SearchCount int    `json:"search_count"`
	UniqueUsers int    `json:"unique_users"`
}

// RegionalBucket is the per-region breakdown of zero-result searches.
type RegionalBucket struct {
	Region          string `json:"region"`
	ZeroResultCount int    `json:"zero_result_count"`
	UniqueUsers     int    `json:"unique_users"`
}

// DailySearchCount is one day of raw totals from the full search log.
type DailySearchCount struct {
	Date            time.Time `json:"date"`
	TotalSearches   int       `json:"total_searches"`
	ZeroResultCount int       `json:"zero_result_searches"`
}

// DailyTrendPoint is one day of the zero-result rate series.
// Rate is 0 when TotalSearches is 0.
type DailyTrendPoint struct {
	Date            time.Time `json:"date"`
	TotalSearches   int       `json:"total_searches"`
	ZeroResultCount int       `json:"zero_result_searches"`
	ZeroResultRate  float64   `json:"zero_result_rate"`
}

// ReportSummary aggregates headline numbers for one report window.
type ReportSummary struct {
	TotalZeroResultSearches int     `json:"total_zero_result_searches"`
	UniqueZeroResultTerms   int     `json:"unique_zero_result_terms"`
	AffectedUsers           int     `json:"affected_users"`
	AvgZeroResultRate       float64 `json:"avg_zero_result_rate"`
	MalformedRecords        int     `json:"malformed_records"`
}

// ContentGapReport is the assembled output of one analysis invocation.
// All sections are derived views over the same immutable record set.
type ContentGapReport struct {
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"`
	TopZeroResultTerms []TermFrequency   `json:"top_zero_result_terms"`
	TypoSuggestions    []TypoSuggestion  `json:"typo_suggestions"`
	RegionalAnalysis   []RegionalBucket  `json:"regional_analysis"`
	CategoryBreakdown  []CategoryCount   `json:"category_breakdown"`
	TrendOverTime      []DailyTrendPoint `json:"trend_over_time"`
	Summary            ReportSummary     `json:"summary"`
	GeneratedAt        time.Time         `json:"generated_at"`
}
