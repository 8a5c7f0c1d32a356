package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/internal/domain/repositories"
	apperrors "github.com/searchpulse/backend/pkg/errors"
)

// fakeEventRepo serves canned batches and records whether it was queried.
type fakeEventRepo struct {
	zero    repositories.EventBatch
	success repositories.EventBatch
	daily   []entities.DailySearchCount
	queried bool
}

func (f *fakeEventRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	return nil
}

func (f *fakeEventRepo) ZeroResultEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	f.queried = true
	return &f.zero, nil
}

func (f *fakeEventRepo) SuccessfulEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	f.queried = true
	return &f.success, nil
}

func (f *fakeEventRepo) SearchEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	f.queried = true
	all := append(append([]*entities.SearchEvent{}, f.zero.Events...), f.success.Events...)
	return &repositories.EventBatch{Events: all}, nil
}

func (f *fakeEventRepo) DailySearchCounts(ctx context.Context, start, end time.Time) ([]entities.DailySearchCount, error) {
	f.queried = true
	return f.daily, nil
}

func timedEvent(user, term, region string, ts time.Time) *entities.SearchEvent {
	return &entities.SearchEvent{
		UserID:         user,
		SearchTerm:     term,
		Region:         region,
		EventName:      entities.EventSearchSubmit,
		EventDate:      ts.Truncate(24 * time.Hour),
		EventTimestamp: ts,
	}
}

func TestGenerateReport_InvalidRangeFailsBeforeQuery(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewContentGapService(repo, DefaultMatchPolicy(), 20)

	_, err := svc.GenerateReport(context.Background(),
		day("2025-06-30"), day("2025-06-01"), 0)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.False(t, repo.queried, "data source must not be queried for an invalid range")
}

func TestGenerateReport_EndToEnd(t *testing.T) {
	base := day("2025-06-01").Add(8 * time.Hour)

	repo := &fakeEventRepo{
		zero: repositories.EventBatch{
			Events: []*entities.SearchEvent{
				// Date-descending load order; earliest timestamp carries
				// the display casing ("Model3").
				timedEvent("u3", "MODEL3", "west", base.Add(3*time.Hour)),
				timedEvent("u2", "model3", "west", base.Add(2*time.Hour)),
				timedEvent("u1", "Model3", "west", base.Add(1*time.Hour)),
				timedEvent("u4", "modle3", "east", base.Add(4*time.Hour)),
				timedEvent("u5", "modle3", "east", base.Add(5*time.Hour)),
			},
			Skipped: 1,
		},
		success: repositories.EventBatch{
			Events: []*entities.SearchEvent{
				timedEvent("u6", "model3", "west", base),
				timedEvent("u7", "cybertruck", "west", base),
			},
		},
		daily: []entities.DailySearchCount{
			{Date: day("2025-06-01"), TotalSearches: 10, ZeroResultCount: 5},
			{Date: day("2025-06-02"), TotalSearches: 0, ZeroResultCount: 0},
		},
	}

	svc := NewContentGapService(repo, DefaultMatchPolicy(), 20)
	report, err := svc.GenerateReport(context.Background(),
		day("2025-06-01"), day("2025-06-02"), 0)
	require.NoError(t, err)

	// Top terms: model3 (3, 60%) before modle3 (2, 40%).
	require.Len(t, report.TopZeroResultTerms, 2)
	top := report.TopZeroResultTerms
	assert.Equal(t, "model3", top[0].NormalizedTerm)
	assert.Equal(t, "Model3", top[0].OriginalTerm)
	assert.Equal(t, 3, top[0].SearchCount)
	assert.InDelta(t, 60.0, top[0].Percentage, 1e-9)
	assert.Equal(t, "modle3", top[1].NormalizedTerm)
	assert.Equal(t, 2, top[1].SearchCount)
	assert.InDelta(t, 40.0, top[1].Percentage, 1e-9)

	// Typo suggestions: modle3 -> model3; model3 maps to itself with
	// ratio 1.0 and leads on frequency.
	require.Len(t, report.TypoSuggestions, 2)
	assert.Equal(t, "model3", report.TypoSuggestions[0].ZeroResultTerm)
	assert.Equal(t, "model3", report.TypoSuggestions[0].SuggestedCorrection)
	assert.Equal(t, 3, report.TypoSuggestions[0].Frequency)
	assert.Equal(t, "modle3", report.TypoSuggestions[1].ZeroResultTerm)
	assert.Equal(t, "model3", report.TypoSuggestions[1].SuggestedCorrection)
	assert.Equal(t, 2, report.TypoSuggestions[1].Frequency)

	// Regional: west 3 before east 2.
	require.Len(t, report.RegionalAnalysis, 2)
	assert.Equal(t, "west", report.RegionalAnalysis[0].Region)
	assert.Equal(t, 3, report.RegionalAnalysis[0].ZeroResultCount)

	// Trend: ascending dates, zero-total day rate 0.
	require.Len(t, report.TrendOverTime, 2)
	assert.InDelta(t, 0.5, report.TrendOverTime[0].ZeroResultRate, 1e-9)
	assert.Equal(t, 0.0, report.TrendOverTime[1].ZeroResultRate)

	// Summary.
	assert.Equal(t, 5, report.Summary.TotalZeroResultSearches)
	assert.Equal(t, 2, report.Summary.UniqueZeroResultTerms)
	assert.Equal(t, 5, report.Summary.AffectedUsers)
	assert.InDelta(t, 0.25, report.Summary.AvgZeroResultRate, 1e-9)
	assert.Equal(t, 1, report.Summary.MalformedRecords)
}

func TestGenerateReport_EmptyWindow(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewContentGapService(repo, DefaultMatchPolicy(), 20)

	report, err := svc.GenerateReport(context.Background(),
		day("2025-06-01"), day("2025-06-02"), 0)
	require.NoError(t, err)

	assert.Empty(t, report.TopZeroResultTerms)
	assert.Empty(t, report.TypoSuggestions)
	assert.Equal(t, 0, report.Summary.TotalZeroResultSearches)
	assert.Equal(t, 0.0, report.Summary.AvgZeroResultRate)
}

func TestGenerateReport_UsesCache(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewContentGapService(repo, DefaultMatchPolicy(), 20)

	cache := newMemoryCache()
	svc.SetCache(cache, 60)

	_, err := svc.GenerateReport(context.Background(), day("2025-06-01"), day("2025-06-02"), 0)
	require.NoError(t, err)

	repo.queried = false
	_, err = svc.GenerateReport(context.Background(), day("2025-06-01"), day("2025-06-02"), 0)
	require.NoError(t, err)
	assert.False(t, repo.queried, "second call should be served from cache")
}

// memoryCache is a minimal CacheProvider for tests.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, apperrors.NewNotFoundError("key not found")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}
