package entities

import (
	"time"
)

// ClickPositionBucket counts result clicks at one ranked position.
type ClickPositionBucket struct {
	Position   int     `json:"position"`
	ClickCount int     `json:"click_count"`
	Share      float64 `json:"share"`
}

// EngagementReport holds the search engagement metrics for a window.
type EngagementReport struct {
	StartDate           time.Time             `json:"start_date"`
	EndDate             time.Time             `json:"end_date"`
	TotalSearches       int                   `json:"total_searches"`
	TotalClicks         int                   `json:"total_clicks"`
	EngagementRate      float64               `json:"engagement_rate"`
	RefinementRate      float64               `json:"refinement_rate"`
	AvgResultsPerSearch float64               `json:"avg_results_per_search"`
	ClickPositions      []ClickPositionBucket `json:"click_positions"`
	GeneratedAt         time.Time             `json:"generated_at"`
}
