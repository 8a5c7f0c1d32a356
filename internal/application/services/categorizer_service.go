package services

import (
	"sort"
	"strings"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/pkg/utils"
)

// categoryRule matches a query when any keyword appears as a substring of
// the lowercased term.
type categoryRule struct {
	category string
	keywords []string
}

// defaultCategoryRules is the rule cascade in priority order; the first
// matching rule wins. Order is load-bearing: "battery" must classify as a
// feature query even though it is a single word.
func defaultCategoryRules() []categoryRule {
	return []categoryRule{
		{entities.CategoryComparison, []string{"vs", "versus", "compare", "or"}},
		{entities.CategoryPricing, []string{"price", "cost", "msrp", "lease"}},
		{entities.CategoryFeatureSpec, []string{"mpg", "horsepower", "hp", "range", "battery"}},
	}
}

// CategorizerService classifies zero-result queries into intent categories.
type CategorizerService struct {
	rules []categoryRule
}

// NewCategorizerService creates a categorizer with the default rule cascade.
func NewCategorizerService() *CategorizerService {
	return &CategorizerService{rules: defaultCategoryRules()}
}

// Categorize returns the intent category for one query. The single-word
// check counts whitespace tokens of the original, non-normalized term.
func (s *CategorizerService) Categorize(term string) string {
	lower := strings.ToLower(term)
	for _, rule := range s.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	if utils.TokenCount(term) == 1 {
		return entities.CategorySingleWord
	}
	return entities.CategoryOther
}

// Breakdown categorizes every event and returns per-category query counts
// and distinct-user counts, sorted by query count descending (ties by
// category name ascending).
func (s *CategorizerService) Breakdown(events []*entities.SearchEvent) []entities.CategoryCount {
	counts := make(map[string]int)
	users := make(map[string]map[string]struct{})
	for _, e := range events {
		category := s.Categorize(e.SearchTerm)
		counts[category]++
		if users[category] == nil {
			users[category] = make(map[string]struct{})
		}
		users[category][e.UserID] = struct{}{}
	}

	breakdown := make([]entities.CategoryCount, 0, len(counts))
	for category, count := range counts {
		breakdown = append(breakdown, entities.CategoryCount{
			Category:    category,
			SearchCount: count,
			UniqueUsers: len(users[category]),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].SearchCount != breakdown[j].SearchCount {
			return breakdown[i].SearchCount > breakdown[j].SearchCount
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}
