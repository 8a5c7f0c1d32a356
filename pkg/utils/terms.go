package utils

import (
	"strings"
)

// NormalizeTerm canonicalizes a raw search term for grouping: lowercased with
// leading/trailing whitespace stripped. The result is idempotent, so a
// normalized term normalizes to itself. Empty and whitespace-only input is
// valid and normalizes to the empty string. No locale-aware casing is applied.
func NormalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// TokenCount returns the number of whitespace-delimited tokens in the
// original (non-normalized) term. Category rules use this to detect
// single-word queries.
func TokenCount(term string) int {
	return len(strings.Fields(term))
}
