// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "errors"

var (
	// ErrInvalidFilter is returned for an unrecognized filter key or a
	// filter value that cannot be parsed. Rejected before any ranking work.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidPagination is returned when page < 1 or per_page < 1.
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrCandidateSourceRequired is returned when an Engine is constructed
	// without a candidate source.
	ErrCandidateSourceRequired = errors.New("candidate source required")
)
