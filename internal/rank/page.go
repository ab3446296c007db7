// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"strconv"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// Filters holds the enumerated filter predicates. All set predicates are
// combined with logical AND. Filtering has no effect on relative ranking.
type Filters struct {
	// HasCode, when set, keeps only papers with at least one code link
	// (true) or only papers without one (false).
	HasCode *bool
}

// Validate reports whether the filter combination is acceptable. All
// representable combinations are currently valid; unknown keys are
// rejected earlier, in ParseFilters.
func (f Filters) Validate() error {
	return nil
}

// Match reports whether a paper passes every set predicate.
func (f Filters) Match(p types.Paper) bool {
	if f.HasCode != nil && p.HasCode() != *f.HasCode {
		return false
	}
	return true
}

// Apply returns the candidates that pass the filters, preserving order.
func (f Filters) Apply(candidates []types.Paper) []types.Paper {
	if f.HasCode == nil {
		return candidates
	}
	kept := make([]types.Paper, 0, len(candidates))
	for _, p := range candidates {
		if f.Match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// ParseFilters builds Filters from raw key/value parameters, rejecting
// unrecognized keys and unparseable values before any ranking work.
// Supported keys: has_code (boolean).
func ParseFilters(params map[string]string) (Filters, error) {
	var f Filters
	for key, value := range params {
		switch key {
		case "has_code":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Filters{}, fmt.Errorf("%w: has_code must be a boolean, got %q", ErrInvalidFilter, value)
			}
			f.HasCode = &b
		default:
			return Filters{}, fmt.Errorf("%w: unknown filter key %q", ErrInvalidFilter, key)
		}
	}
	return f, nil
}

// paginate slices the fully ordered sequence into the requested page.
// A page past the end yields an empty item list with the page counts still
// reported; an empty sequence yields TotalPages 0.
func paginate(ranked []types.Paper, page, perPage int) Result {
	total := len(ranked)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]types.PaperSummary, 0, end-start)
	for _, p := range ranked[start:end] {
		items = append(items, p.Summary())
	}

	return Result{
		Items:      items,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
	}
}
