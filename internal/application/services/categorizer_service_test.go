package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchpulse/backend/internal/domain/entities"
)

func TestCategorize_RulePrecedence(t *testing.T) {
	svc := NewCategorizerService()

	// Matches rules 1, 2 and 3; rule 1 must win.
	assert.Equal(t, entities.CategoryComparison, svc.Categorize("compare price mpg"))

	assert.Equal(t, entities.CategoryComparison, svc.Categorize("Model 3 vs Model Y"))
	assert.Equal(t, entities.CategoryPricing, svc.Categorize("model y lease deals"))
	assert.Equal(t, entities.CategoryFeatureSpec, svc.Categorize("model y mpg equivalent"))
}

func TestCategorize_KeywordRulesPrecedeSingleWord(t *testing.T) {
	svc := NewCategorizerService()

	// One token, but rule 3 fires before the single-word check.
	assert.Equal(t, entities.CategoryFeatureSpec, svc.Categorize("battery"))
}

func TestCategorize_SingleWord(t *testing.T) {
	svc := NewCategorizerService()

	assert.Equal(t, entities.CategorySingleWord, svc.Categorize("suv"))
	assert.Equal(t, entities.CategorySingleWord, svc.Categorize("  minivan  "))
}

func TestCategorize_Other(t *testing.T) {
	svc := NewCategorizerService()

	assert.Equal(t, entities.CategoryOther, svc.Categorize("blue paint glass panel"))
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	svc := NewCategorizerService()

	assert.Equal(t, entities.CategoryPricing, svc.Categorize("MSRP Details"))
	assert.Equal(t, entities.CategoryComparison, svc.Categorize("X VERSUS Y"))
}

func TestBreakdown_CountsAndDistinctUsers(t *testing.T) {
	svc := NewCategorizerService()

	events := []*entities.SearchEvent{
		submitEvent("u1", "a vs b"),
		submitEvent("u1", "c vs d"),
		submitEvent("u2", "e versus f"),
		submitEvent("u3", "msrp"),
	}

	breakdown := svc.Breakdown(events)
	require.Len(t, breakdown, 2)

	assert.Equal(t, entities.CategoryComparison, breakdown[0].Category)
	assert.Equal(t, 3, breakdown[0].SearchCount)
	assert.Equal(t, 2, breakdown[0].UniqueUsers)

	assert.Equal(t, entities.CategoryPricing, breakdown[1].Category)
	assert.Equal(t, 1, breakdown[1].SearchCount)
	assert.Equal(t, 1, breakdown[1].UniqueUsers)
}
