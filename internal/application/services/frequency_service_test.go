package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchpulse/backend/internal/domain/entities"
	apperrors "github.com/searchpulse/backend/pkg/errors"
)

func submitEvent(user, term string) *entities.SearchEvent {
	return &entities.SearchEvent{
		UserID:         user,
		SearchTerm:     term,
		EventName:      entities.EventSearchSubmit,
		EventTimestamp: time.Now(),
	}
}

func TestTopTerms_GroupsByNormalizedTerm(t *testing.T) {
	svc := NewFrequencyService()

	events := []*entities.SearchEvent{
		submitEvent("u1", "Model3"),
		submitEvent("u2", " model3 "),
		submitEvent("u3", "MODEL3"),
		submitEvent("u4", "modle3"),
		submitEvent("u5", "modle3"),
	}

	terms := svc.TopTerms(events, 20)
	require.Len(t, terms, 2)

	assert.Equal(t, "model3", terms[0].NormalizedTerm)
	assert.Equal(t, 3, terms[0].SearchCount)
	assert.InDelta(t, 60.0, terms[0].Percentage, 1e-9)
	// Display form keeps the casing of the first occurrence in input order.
	assert.Equal(t, "Model3", terms[0].OriginalTerm)

	assert.Equal(t, "modle3", terms[1].NormalizedTerm)
	assert.Equal(t, 2, terms[1].SearchCount)
	assert.InDelta(t, 40.0, terms[1].Percentage, 1e-9)
}

func TestTopTerms_PercentagesSumToHundred(t *testing.T) {
	svc := NewFrequencyService()

	events := []*entities.SearchEvent{
		submitEvent("u1", "alpha"),
		submitEvent("u2", "beta"),
		submitEvent("u3", "beta"),
		submitEvent("u4", "gamma"),
		submitEvent("u5", "gamma"),
		submitEvent("u6", "gamma"),
		submitEvent("u7", "delta"),
	}

	var sum float64
	for _, term := range svc.TopTerms(events, 0) {
		sum += term.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestTopTerms_TiesBrokenLexicographically(t *testing.T) {
	svc := NewFrequencyService()

	events := []*entities.SearchEvent{
		submitEvent("u1", "zebra"),
		submitEvent("u2", "apple"),
	}

	terms := svc.TopTerms(events, 10)
	require.Len(t, terms, 2)
	assert.Equal(t, "apple", terms[0].NormalizedTerm)
	assert.Equal(t, "zebra", terms[1].NormalizedTerm)
}

func TestTopTerms_TruncatesAfterPercentages(t *testing.T) {
	svc := NewFrequencyService()

	events := []*entities.SearchEvent{
		submitEvent("u1", "a"),
		submitEvent("u2", "a"),
		submitEvent("u3", "b"),
		submitEvent("u4", "c"),
	}

	terms := svc.TopTerms(events, 1)
	require.Len(t, terms, 1)
	// Percentage is over the full set, not the truncated one.
	assert.InDelta(t, 50.0, terms[0].Percentage, 1e-9)
}

func TestTopTerms_EmptyInput(t *testing.T) {
	svc := NewFrequencyService()
	assert.Empty(t, svc.TopTerms(nil, 10))
}

func TestTopTerms_WhitespaceOnlyTermIsValid(t *testing.T) {
	svc := NewFrequencyService()

	terms := svc.TopTerms([]*entities.SearchEvent{submitEvent("u1", "   ")}, 10)
	require.Len(t, terms, 1)
	assert.Equal(t, "", terms[0].NormalizedTerm)
	assert.Equal(t, 1, terms[0].SearchCount)
}

func TestTopTermsNonEmpty_FailsOnEmptyInput(t *testing.T) {
	svc := NewFrequencyService()

	_, err := svc.TopTermsNonEmpty(nil, 10)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeEmptyResult, appErr.Type)
}

func TestTermCounts_CaseInsensitive(t *testing.T) {
	svc := NewFrequencyService()

	counts := svc.TermCounts([]*entities.SearchEvent{
		submitEvent("u1", "Tesla"),
		submitEvent("u2", "tesla"),
		submitEvent("u3", "TESLA "),
	})
	assert.Equal(t, map[string]int{"tesla": 3}, counts)
}
