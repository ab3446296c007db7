// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// Tier is the keyword-match strength of a paper for a query. Higher tiers
// rank strictly before lower tiers regardless of semantic similarity.
type Tier int

const (
	TierNone Tier = iota
	TierAbstract
	TierTitle
)

// String returns the tier name for logging and debug output.
func (t Tier) String() string {
	switch t {
	case TierTitle:
		return "title"
	case TierAbstract:
		return "abstract"
	default:
		return "none"
	}
}

// normalizeQuery lowercases and trims the query. A query that normalizes
// to "" carries no keyword signal.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// fieldMatches reports whether the normalized query matches a field: either
// the query is a substring of the field, or every whitespace-split query
// token appears in it.
func fieldMatches(normQuery string, tokens []string, field string) bool {
	f := strings.ToLower(field)
	if strings.Contains(f, normQuery) {
		return true
	}
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(f, tok) {
			return false
		}
	}
	return true
}

// MatchTier returns the keyword tier of a paper for a query: TierTitle if
// the query matches the title, TierAbstract if it matches only the
// abstract, TierNone otherwise. An empty or whitespace-only query yields
// TierNone for every paper.
func MatchTier(query string, p types.Paper) Tier {
	normQuery := normalizeQuery(query)
	if normQuery == "" {
		return TierNone
	}
	tokens := strings.Fields(normQuery)

	if fieldMatches(normQuery, tokens, p.Title) {
		return TierTitle
	}
	if fieldMatches(normQuery, tokens, p.Abstract) {
		return TierAbstract
	}
	return TierNone
}

// matchTiers computes the tier for every candidate. Pure and read-only.
func matchTiers(query string, candidates []types.Paper) map[string]Tier {
	tiers := make(map[string]Tier, len(candidates))
	for _, p := range candidates {
		tiers[p.ID] = MatchTier(query, p)
	}
	return tiers
}
