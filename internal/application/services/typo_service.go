package services

import (
	"context"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/pkg/utils"
)

// SimilarityFunc scores the closeness of two strings in [0, 1], where 1.0
// means identical. Implementations must be stateless and side-effect-free so
// comparisons can run independently.
type SimilarityFunc func(a, b string) float64

// LevenshteinRatio is the default similarity: 1 - editDistance/maxRuneLen.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// MatchPolicy is the candidate selection policy for typo detection.
type MatchPolicy struct {
	// Cutoff is the minimum similarity ratio for a candidate.
	Cutoff float64

	// MaxCandidates caps candidates retained per zero-result term.
	MaxCandidates int

	// MaxCorpusTerms caps the corpus to its most frequent distinct terms.
	// Detection compares every zero-result term against every corpus term,
	// so this bound dominates the cost of the whole pipeline.
	MaxCorpusTerms int
}

// DefaultMatchPolicy is the production tuning.
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{
		Cutoff:         0.6,
		MaxCandidates:  3,
		MaxCorpusTerms: 5000,
	}
}

var (
	comparisonCounterOnce sync.Once
	comparisonCounter     metric.Int64Counter
)

// TypoService proposes corrections for zero-result terms by fuzzy-matching
// them against a corpus of successful search terms.
type TypoService struct {
	similarity SimilarityFunc
	policy     MatchPolicy
}

// NewTypoService creates a typo service with the Levenshtein-based ratio.
func NewTypoService(policy MatchPolicy) *TypoService {
	return NewTypoServiceWithSimilarity(policy, LevenshteinRatio)
}

// NewTypoServiceWithSimilarity allows swapping the matching algorithm
// (e.g. for a trie- or sketch-based search) without touching selection.
func NewTypoServiceWithSimilarity(policy MatchPolicy, similarity SimilarityFunc) *TypoService {
	if policy.MaxCandidates <= 0 {
		policy.MaxCandidates = 3
	}
	return &TypoService{similarity: similarity, policy: policy}
}

type corpusTerm struct {
	term  string
	count int
}

// DetectTypos returns suggestions for every distinct zero-result term whose
// best corpus match clears the cutoff. Both sides are compared on their
// normalized (lowercased) forms. Suggestions are ordered by the zero-result
// term's frequency descending, ties by term ascending.
func (s *TypoService) DetectTypos(ctx context.Context, zeroEvents, successfulEvents []*entities.SearchEvent) []entities.TypoSuggestion {
	zeroCounts := make(map[string]int)
	for _, e := range zeroEvents {
		zeroCounts[utils.NormalizeTerm(e.SearchTerm)]++
	}

	corpus := s.buildCorpus(successfulEvents)
	if len(zeroCounts) == 0 || len(corpus) == 0 {
		return nil
	}

	s.recordComparisons(ctx, int64(len(zeroCounts))*int64(len(corpus)))

	suggestions := make([]entities.TypoSuggestion, 0, len(zeroCounts))
	for zeroTerm, freq := range zeroCounts {
		candidates := s.closestMatches(zeroTerm, corpus)
		if len(candidates) == 0 {
			continue
		}
		suggestions = append(suggestions, entities.TypoSuggestion{
			ZeroResultTerm:       zeroTerm,
			SuggestedCorrection:  candidates[0],
			AlternateSuggestions: candidates[1:],
			Frequency:            freq,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].ZeroResultTerm < suggestions[j].ZeroResultTerm
	})
	return suggestions
}

// buildCorpus collects distinct normalized successful terms, capped to the
// MaxCorpusTerms most frequent (ties by term ascending for determinism).
func (s *TypoService) buildCorpus(events []*entities.SearchEvent) []corpusTerm {
	counts := make(map[string]int)
	for _, e := range events {
		term := utils.NormalizeTerm(e.SearchTerm)
		if term == "" {
			continue
		}
		counts[term]++
	}

	corpus := make([]corpusTerm, 0, len(counts))
	for term, count := range counts {
		corpus = append(corpus, corpusTerm{term: term, count: count})
	}
	sort.Slice(corpus, func(i, j int) bool {
		if corpus[i].count != corpus[j].count {
			return corpus[i].count > corpus[j].count
		}
		return corpus[i].term < corpus[j].term
	})

	if s.policy.MaxCorpusTerms > 0 && len(corpus) > s.policy.MaxCorpusTerms {
		corpus = corpus[:s.policy.MaxCorpusTerms]
	}
	return corpus
}

// closestMatches scores term against every corpus term and returns at most
// MaxCandidates terms above the cutoff, best first. Ties are broken by
// shorter corpus term, then lexicographic order.
func (s *TypoService) closestMatches(term string, corpus []corpusTerm) []string {
	type scored struct {
		term  string
		ratio float64
	}

	var matches []scored
	for _, c := range corpus {
		ratio := s.similarity(term, c.term)
		if ratio >= s.policy.Cutoff {
			matches = append(matches, scored{term: c.term, ratio: ratio})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ratio != matches[j].ratio {
			return matches[i].ratio > matches[j].ratio
		}
		if len(matches[i].term) != len(matches[j].term) {
			return len(matches[i].term) < len(matches[j].term)
		}
		return matches[i].term < matches[j].term
	})

	if len(matches) > s.policy.MaxCandidates {
		matches = matches[:s.policy.MaxCandidates]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.term
	}
	return result
}

func (s *TypoService) recordComparisons(ctx context.Context, n int64) {
	comparisonCounterOnce.Do(func() {
		meter := otel.Meter("github.com/searchpulse/backend")
		counter, err := meter.Int64Counter(
			"analytics.typo.comparisons",
			metric.WithDescription("Pairwise similarity comparisons performed during typo detection"),
		)
		if err == nil {
			comparisonCounter = counter
		}
	})
	if comparisonCounter != nil {
		comparisonCounter.Add(ctx, n)
	}
}
