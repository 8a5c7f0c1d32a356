package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/internal/domain/providers"
	"github.com/searchpulse/backend/internal/domain/repositories"
	apperrors "github.com/searchpulse/backend/pkg/errors"
	"github.com/searchpulse/backend/pkg/utils"
)

const reportChannel = "reports"

// ContentGapService assembles the zero-result analysis report. It performs
// no aggregation of its own beyond composition and the summary mean; the
// analysis stages do the work over one materialized record set.
type ContentGapService struct {
	repo        repositories.SearchEventRepository
	frequency   *FrequencyService
	typos       *TypoService
	categorizer *CategorizerService
	trends      *TrendService

	defaultTopN int
	cacheTTL    int

	cache providers.CacheProvider
	bus   providers.EventBus
}

// NewContentGapService creates the report pipeline.
func NewContentGapService(repo repositories.SearchEventRepository, policy MatchPolicy, defaultTopN int) *ContentGapService {
	if defaultTopN <= 0 {
		defaultTopN = 20
	}
	return &ContentGapService{
		repo:        repo,
		frequency:   NewFrequencyService(),
		typos:       NewTypoService(policy),
		categorizer: NewCategorizerService(),
		trends:      NewTrendService(),
		defaultTopN: defaultTopN,
		cacheTTL:    900,
	}
}

// SetCache enables report caching keyed by date range.
func (s *ContentGapService) SetCache(cache providers.CacheProvider, ttlSeconds int) {
	s.cache = cache
	if ttlSeconds > 0 {
		s.cacheTTL = ttlSeconds
	}
}

// SetEventBus enables report.generated notifications.
func (s *ContentGapService) SetEventBus(bus providers.EventBus) {
	s.bus = bus
}

// ValidateDateRange rejects inverted ranges. It runs before any data source
// query so parameter errors never touch the log.
func ValidateDateRange(start, end time.Time) error {
	if start.After(end) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"invalid date range: start %s is after end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"),
		))
	}
	return nil
}

// GenerateReport runs the full zero-result analysis for [start, end].
// A failed generation returns no partial report. A topN <= 0 uses the
// service default.
func (s *ContentGapService) GenerateReport(ctx context.Context, start, end time.Time, topN int) (*entities.ContentGapReport, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.defaultTopN
	}

	cacheKey := fmt.Sprintf("report:content-gaps:%s:%s:%d",
		start.Format("2006-01-02"), end.Format("2006-01-02"), topN)
	if cached := s.cachedReport(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	began := time.Now()

	zeroBatch, err := s.repo.ZeroResultEvents(ctx, start, end)
	if err != nil {
		return nil, err
	}
	successBatch, err := s.repo.SuccessfulEvents(ctx, start, end)
	if err != nil {
		return nil, err
	}
	dailyCounts, err := s.repo.DailySearchCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// The source returns events date-descending; re-sort by timestamp
	// ascending so the representative casing of each term group is the
	// earliest-seen record, independent of load order.
	zeroEvents := make([]*entities.SearchEvent, len(zeroBatch.Events))
	copy(zeroEvents, zeroBatch.Events)
	sort.SliceStable(zeroEvents, func(i, j int) bool {
		return zeroEvents[i].EventTimestamp.Before(zeroEvents[j].EventTimestamp)
	})

	trend := s.trends.DailyTrend(dailyCounts)

	report := &entities.ContentGapReport{
		StartDate:          start,
		EndDate:            end,
		TopZeroResultTerms: s.frequency.TopTerms(zeroEvents, topN),
		TypoSuggestions:    s.typos.DetectTypos(ctx, zeroEvents, successBatch.Events),
		RegionalAnalysis:   s.trends.RegionalBreakdown(zeroEvents),
		CategoryBreakdown:  s.categorizer.Breakdown(zeroEvents),
		TrendOverTime:      trend,
		Summary: entities.ReportSummary{
			TotalZeroResultSearches: len(zeroEvents),
			UniqueZeroResultTerms:   countDistinctTerms(zeroEvents),
			AffectedUsers:           countDistinctUsers(zeroEvents),
			AvgZeroResultRate:       s.trends.MeanRate(trend),
			MalformedRecords:        zeroBatch.Skipped + successBatch.Skipped,
		},
		GeneratedAt: time.Now().UTC(),
	}

	log.Info().
		Str("start_date", start.Format("2006-01-02")).
		Str("end_date", end.Format("2006-01-02")).
		Int("zero_result_searches", report.Summary.TotalZeroResultSearches).
		Int("typo_suggestions", len(report.TypoSuggestions)).
		Int("malformed_records", report.Summary.MalformedRecords).
		Dur("took", time.Since(began)).
		Msg("content gap report generated")

	s.storeReport(ctx, cacheKey, report)
	s.announceReport(ctx, report)

	return report, nil
}

func (s *ContentGapService) cachedReport(ctx context.Context, key string) *entities.ContentGapReport {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var report entities.ContentGapReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}

func (s *ContentGapService) storeReport(ctx context.Context, key string, report *entities.ContentGapReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache report")
	}
}

func (s *ContentGapService) announceReport(ctx context.Context, report *entities.ContentGapReport) {
	if s.bus == nil {
		return
	}
	event := &providers.ReportEvent{
		ID:          uuid.New().String(),
		Type:        "report.generated",
		StartDate:   report.StartDate.Format("2006-01-02"),
		EndDate:     report.EndDate.Format("2006-01-02"),
		Summary:     report.Summary,
		GeneratedAt: report.GeneratedAt.Unix(),
	}
	if err := s.bus.Publish(ctx, reportChannel, event); err != nil {
		log.Warn().Err(err).Msg("failed to publish report event")
	}
}

func countDistinctTerms(events []*entities.SearchEvent) int {
	terms := make(map[string]struct{}, len(events))
	for _, e := range events {
		terms[utils.NormalizeTerm(e.SearchTerm)] = struct{}{}
	}
	return len(terms)
}

func countDistinctUsers(events []*entities.SearchEvent) int {
	users := make(map[string]struct{}, len(events))
	for _, e := range events {
		users[e.UserID] = struct{}{}
	}
	return len(users)
}
