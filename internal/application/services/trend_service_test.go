package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchpulse/backend/internal/domain/entities"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func regionalEvent(user, region string) *entities.SearchEvent {
	e := submitEvent(user, "anything")
	e.Region = region
	return e
}

func TestRegionalBreakdown(t *testing.T) {
	svc := NewTrendService()

	events := []*entities.SearchEvent{
		regionalEvent("u1", "west"),
		regionalEvent("u1", "west"),
		regionalEvent("u2", "west"),
		regionalEvent("u3", "east"),
	}

	buckets := svc.RegionalBreakdown(events)
	require.Len(t, buckets, 2)

	assert.Equal(t, "west", buckets[0].Region)
	assert.Equal(t, 3, buckets[0].ZeroResultCount)
	assert.Equal(t, 2, buckets[0].UniqueUsers)

	assert.Equal(t, "east", buckets[1].Region)
	assert.Equal(t, 1, buckets[1].ZeroResultCount)
}

func TestRegionalBreakdown_TieBrokenByRegion(t *testing.T) {
	svc := NewTrendService()

	buckets := svc.RegionalBreakdown([]*entities.SearchEvent{
		regionalEvent("u1", "south"),
		regionalEvent("u2", "north"),
	})
	require.Len(t, buckets, 2)
	assert.Equal(t, "north", buckets[0].Region)
	assert.Equal(t, "south", buckets[1].Region)
}

func TestDailyTrend_RateComputation(t *testing.T) {
	svc := NewTrendService()

	points := svc.DailyTrend([]entities.DailySearchCount{
		{Date: day("2025-06-02"), TotalSearches: 200, ZeroResultCount: 30},
		{Date: day("2025-06-01"), TotalSearches: 100, ZeroResultCount: 10},
	})
	require.Len(t, points, 2)

	// Ordered by date ascending regardless of input order.
	assert.Equal(t, day("2025-06-01"), points[0].Date)
	assert.InDelta(t, 0.10, points[0].ZeroResultRate, 1e-9)
	assert.Equal(t, day("2025-06-02"), points[1].Date)
	assert.InDelta(t, 0.15, points[1].ZeroResultRate, 1e-9)
}

func TestDailyTrend_ZeroTotalDayHasZeroRate(t *testing.T) {
	svc := NewTrendService()

	points := svc.DailyTrend([]entities.DailySearchCount{
		{Date: day("2025-06-01"), TotalSearches: 0, ZeroResultCount: 0},
	})
	require.Len(t, points, 1)
	assert.Equal(t, 0.0, points[0].ZeroResultRate)
}

func TestMeanRate(t *testing.T) {
	svc := NewTrendService()

	points := []entities.DailyTrendPoint{
		{ZeroResultRate: 0.1},
		{ZeroResultRate: 0.3},
	}
	assert.InDelta(t, 0.2, svc.MeanRate(points), 1e-9)
}

func TestMeanRate_EmptySeriesIsZero(t *testing.T) {
	svc := NewTrendService()
	assert.Equal(t, 0.0, svc.MeanRate(nil))
}
