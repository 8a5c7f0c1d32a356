package services

import (
	"sort"

	"github.com/searchpulse/backend/internal/domain/entities"
)

// TrendService computes regional and temporal aggregations of the search log.
type TrendService struct{}

// NewTrendService creates a new trend service.
func NewTrendService() *TrendService {
	return &TrendService{}
}

// RegionalBreakdown groups zero-result events by region and returns counts
// and distinct-user counts, sorted by count descending (ties by region
// ascending).
func (s *TrendService) RegionalBreakdown(events []*entities.SearchEvent) []entities.RegionalBucket {
	counts := make(map[string]int)
	users := make(map[string]map[string]struct{})
	for _, e := range events {
		counts[e.Region]++
		if users[e.Region] == nil {
			users[e.Region] = make(map[string]struct{})
		}
		users[e.Region][e.UserID] = struct{}{}
	}

	buckets := make([]entities.RegionalBucket, 0, len(counts))
	for region, count := range counts {
		buckets = append(buckets, entities.RegionalBucket{
			Region:          region,
			ZeroResultCount: count,
			UniqueUsers:     len(users[region]),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].ZeroResultCount != buckets[j].ZeroResultCount {
			return buckets[i].ZeroResultCount > buckets[j].ZeroResultCount
		}
		return buckets[i].Region < buckets[j].Region
	})
	return buckets
}

// DailyTrend turns raw per-day counts into the zero-result rate series,
// ordered by date ascending. A day with no searches has a rate of 0, never
// NaN or an error.
func (s *TrendService) DailyTrend(counts []entities.DailySearchCount) []entities.DailyTrendPoint {
	points := make([]entities.DailyTrendPoint, 0, len(counts))
	for _, c := range counts {
		rate := 0.0
		if c.TotalSearches > 0 {
			rate = float64(c.ZeroResultCount) / float64(c.TotalSearches)
		}
		points = append(points, entities.DailyTrendPoint{
			Date:            c.Date,
			TotalSearches:   c.TotalSearches,
			ZeroResultCount: c.ZeroResultCount,
			ZeroResultRate:  rate,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// MeanRate is the arithmetic mean of the daily rates, unweighted by volume.
// An empty series yields 0 rather than an error.
func (s *TrendService) MeanRate(points []entities.DailyTrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.ZeroResultRate
	}
	return sum / float64(len(points))
}
