// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SubmissionStatus is the processing state of a submitted arXiv ID.
type SubmissionStatus string

const (
	SubmissionPending    SubmissionStatus = "pending"
	SubmissionProcessing SubmissionStatus = "processing"
	SubmissionCompleted  SubmissionStatus = "completed"
	SubmissionFailed     SubmissionStatus = "failed"
)

// CanTransitionTo reports whether moving from s to next is a legal
// state-machine step. Terminal states permit no further transitions.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	switch s {
	case SubmissionPending:
		return next == SubmissionProcessing || next == SubmissionFailed
	case SubmissionProcessing:
		return next == SubmissionCompleted || next == SubmissionFailed
	default:
		return false
	}
}

// Terminal reports whether the status is a final state.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionCompleted || s == SubmissionFailed
}

// Submission tracks one ingestion job from submission to completion.
type Submission struct {
	// ID is a generated UUID identifying the job.
	ID string `json:"id" yaml:"id"`

	// ArxivID is the arXiv identifier being processed.
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Status is the current job state.
	Status SubmissionStatus `json:"status" yaml:"status"`

	// Error describes the failure when Status is failed, empty otherwise.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
