package services

import (
	"sort"

	"github.com/searchpulse/backend/internal/domain/entities"
	apperrors "github.com/searchpulse/backend/pkg/errors"
	"github.com/searchpulse/backend/pkg/utils"
)

// FrequencyService groups search events by normalized term and ranks the
// groups by volume.
type FrequencyService struct{}

// NewFrequencyService creates a new frequency service.
func NewFrequencyService() *FrequencyService {
	return &FrequencyService{}
}

// TopTerms groups events by normalized search term, keeping the original
// casing of the first occurrence in input order as the display form.
// Percentages are computed over the full (untruncated) set, so they sum to
// 100 whenever the input is non-empty. Results are ordered by count
// descending, ties broken by normalized term ascending. A topN <= 0 returns
// all groups. Empty input yields an empty result.
func (s *FrequencyService) TopTerms(events []*entities.SearchEvent, topN int) []entities.TermFrequency {
	if len(events) == 0 {
		return nil
	}

	counts := make(map[string]int)
	originals := make(map[string]string)
	for _, e := range events {
		key := utils.NormalizeTerm(e.SearchTerm)
		if _, seen := counts[key]; !seen {
			originals[key] = e.SearchTerm
		}
		counts[key]++
	}

	total := len(events)
	terms := make([]entities.TermFrequency, 0, len(counts))
	for key, count := range counts {
		terms = append(terms, entities.TermFrequency{
			NormalizedTerm: key,
			OriginalTerm:   originals[key],
			SearchCount:    count,
			Percentage:     float64(count) / float64(total) * 100,
		})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].SearchCount != terms[j].SearchCount {
			return terms[i].SearchCount > terms[j].SearchCount
		}
		return terms[i].NormalizedTerm < terms[j].NormalizedTerm
	})

	if topN > 0 && len(terms) > topN {
		terms = terms[:topN]
	}
	return terms
}

// TopTermsNonEmpty is TopTerms for callers that cannot proceed without data.
func (s *FrequencyService) TopTermsNonEmpty(events []*entities.SearchEvent, topN int) ([]entities.TermFrequency, error) {
	if len(events) == 0 {
		return nil, apperrors.NewEmptyResultError("no search events to aggregate")
	}
	return s.TopTerms(events, topN), nil
}

// TermCounts returns the case-insensitive occurrence count per normalized
// term. The typo matcher uses this to attach frequencies to suggestions.
func (s *FrequencyService) TermCounts(events []*entities.SearchEvent) map[string]int {
	counts := make(map[string]int, len(events))
	for _, e := range events {
		counts[utils.NormalizeTerm(e.SearchTerm)]++
	}
	return counts
}
