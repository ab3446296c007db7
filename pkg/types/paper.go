// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the onepaper service:
// paper records, submission jobs, users, and per-stage configuration.
package types

// Paper holds the metadata and structured extraction fields for one paper
// in the library. The ID is the arXiv identifier (e.g. "2301.07041") and
// is stable across re-submissions.
type Paper struct {
	// ID is the arXiv identifier of the paper.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year (preprint year for arXiv-only papers).
	Year int `json:"year" yaml:"year"`

	// Contribution is a one-sentence summary of the paper's main
	// contribution, produced by the extraction stage.
	Contribution string `json:"contribution,omitempty" yaml:"contribution,omitempty"`

	// Tasks, Methods, Datasets, and CodeLinks are structured fields
	// produced by the extraction stage. Any of them may be empty.
	Tasks     []string `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Methods   []string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Datasets  []string `json:"datasets,omitempty" yaml:"datasets,omitempty"`
	CodeLinks []string `json:"code_links,omitempty" yaml:"code_links,omitempty"`
}

// HasCode reports whether the paper has at least one code link.
func (p Paper) HasCode() bool {
	return len(p.CodeLinks) > 0
}

// Summary projects the paper to the compact listing form.
func (p Paper) Summary() PaperSummary {
	return PaperSummary{
		ID:      p.ID,
		Title:   p.Title,
		Authors: p.Authors,
		Year:    p.Year,
	}
}

// PaperSummary is the result-list projection of a Paper. It carries no
// full-text fields so search responses stay small.
type PaperSummary struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Year    int      `json:"year" yaml:"year"`
}
