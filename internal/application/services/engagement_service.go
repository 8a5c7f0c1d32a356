package services

import (
	"context"
	"sort"
	"time"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/internal/domain/repositories"
	"github.com/searchpulse/backend/pkg/utils"
)

// EngagementService computes search engagement metrics: how often searches
// lead to result clicks, how often users refine their terms, and where in
// the ranking clicks land.
type EngagementService struct {
	repo repositories.SearchEventRepository
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(repo repositories.SearchEventRepository) *EngagementService {
	return &EngagementService{repo: repo}
}

// GenerateReport computes engagement metrics for [start, end].
func (s *EngagementService) GenerateReport(ctx context.Context, start, end time.Time) (*entities.EngagementReport, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	batch, err := s.repo.SearchEvents(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var submits, clicks []*entities.SearchEvent
	for _, e := range batch.Events {
		switch e.EventName {
		case entities.EventSearchSubmit:
			submits = append(submits, e)
		case entities.EventResultClick:
			clicks = append(clicks, e)
		}
	}

	report := &entities.EngagementReport{
		StartDate:     start,
		EndDate:       end,
		TotalSearches: len(submits),
		TotalClicks:   len(clicks),
		GeneratedAt:   time.Now().UTC(),
	}

	if len(submits) > 0 {
		report.EngagementRate = float64(len(clicks)) / float64(len(submits))

		var resultSum int
		for _, e := range submits {
			resultSum += e.ResultCount
		}
		report.AvgResultsPerSearch = float64(resultSum) / float64(len(submits))
	}

	report.RefinementRate = refinementRate(submits)
	report.ClickPositions = clickPositions(clicks)

	return report, nil
}

// refinementRate is the share of sessions that searched more than one
// distinct term. Events without a session id fall back to the user id.
func refinementRate(submits []*entities.SearchEvent) float64 {
	terms := make(map[string]map[string]struct{})
	for _, e := range submits {
		session := e.SessionID
		if session == "" {
			session = e.UserID
		}
		if terms[session] == nil {
			terms[session] = make(map[string]struct{})
		}
		terms[session][utils.NormalizeTerm(e.SearchTerm)] = struct{}{}
	}
	if len(terms) == 0 {
		return 0
	}

	refined := 0
	for _, sessionTerms := range terms {
		if len(sessionTerms) > 1 {
			refined++
		}
	}
	return float64(refined) / float64(len(terms))
}

// clickPositions buckets result clicks by ranked position, ascending.
func clickPositions(clicks []*entities.SearchEvent) []entities.ClickPositionBucket {
	counts := make(map[int]int)
	for _, e := range clicks {
		counts[e.ClickPosition]++
	}

	buckets := make([]entities.ClickPositionBucket, 0, len(counts))
	for position, count := range counts {
		buckets = append(buckets, entities.ClickPositionBucket{
			Position:   position,
			ClickCount: count,
			Share:      float64(count) / float64(len(clicks)),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Position < buckets[j].Position
	})
	return buckets
}
