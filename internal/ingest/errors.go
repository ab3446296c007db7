// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import "errors"

var (
	// ErrInvalidArxivID indicates the submitted identifier is not a
	// recognizable arXiv ID or URL.
	ErrInvalidArxivID = errors.New("invalid arXiv identifier")

	// ErrPaperNotFound indicates arXiv has no entry for the requested ID.
	ErrPaperNotFound = errors.New("paper not found on arXiv")
)
