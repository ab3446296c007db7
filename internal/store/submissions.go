// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// CreateSubmission persists a new ingestion job.
func (s *Store) CreateSubmission(ctx context.Context, sub types.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, arxiv_id, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ArxivID, string(sub.Status), sub.Error,
		sub.CreatedAt.UTC().Format(time.RFC3339Nano),
		sub.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("creating submission %s: %w", sub.ID, err)
	}
	return nil
}

// GetSubmission returns the submission with the given ID, or ErrNotFound.
// The read is idempotent: repeated status queries observe whatever state
// the pipeline has most recently committed.
func (s *Store) GetSubmission(ctx context.Context, id string) (types.Submission, error) {
	var sub types.Submission
	var status, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, arxiv_id, status, error, created_at, updated_at
		 FROM submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.ArxivID, &status, &sub.Error, &created, &updated)
	if err == sql.ErrNoRows {
		return types.Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Submission{}, fmt.Errorf("querying submission %s: %w", id, err)
	}

	sub.Status = types.SubmissionStatus(status)
	sub.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	sub.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return sub, nil
}

// SetSubmissionStatus advances a submission through the state machine,
// rejecting transitions the machine does not allow. The error message is
// stored only for failed status.
func (s *Store) SetSubmissionStatus(ctx context.Context, id string, next types.SubmissionStatus, errMsg string) error {
	current, err := s.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", current.Status, next, ErrInvalidTransition)
	}
	if next != types.SubmissionFailed {
		errMsg = ""
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE submissions SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(next), errMsg, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("updating submission %s: %w", id, err)
	}
	return nil
}
