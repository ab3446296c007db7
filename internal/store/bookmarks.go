// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// AddBookmark saves a paper to a user's library. Returns ErrDuplicate if
// the bookmark already exists and ErrNotFound if the paper does not.
func (s *Store) AddBookmark(ctx context.Context, userID int64, paperID string) error {
	if _, err := s.GetPaper(ctx, paperID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, paper_id, created_at) VALUES (?, ?, ?)`,
		userID, paperID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bookmark for %s: %w", paperID, ErrDuplicate)
		}
		return fmt.Errorf("adding bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark deletes a bookmark, or returns ErrNotFound.
func (s *Store) RemoveBookmark(ctx context.Context, userID int64, paperID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = ? AND paper_id = ?`, userID, paperID)
	if err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bookmark for %s: %w", paperID, ErrNotFound)
	}
	return nil
}

// ListBookmarks returns the user's bookmarked papers, most recently
// saved first.
func (s *Store) ListBookmarks(ctx context.Context, userID int64) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.abstract, p.authors, p.year, p.contribution,
			p.tasks, p.methods, p.datasets, p.code_links
		 FROM papers p JOIN bookmarks b ON b.paper_id = p.id
		 WHERE b.user_id = ?
		 ORDER BY b.created_at DESC, p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bookmarked paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
