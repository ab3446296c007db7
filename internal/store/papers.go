// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

// UpsertPaper inserts or replaces a paper record. Re-submitting an arXiv
// ID overwrites the previous extraction.
func (s *Store) UpsertPaper(ctx context.Context, p types.Paper) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, abstract, authors, year, contribution, tasks, methods, datasets, code_links)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, authors=excluded.authors,
			year=excluded.year, contribution=excluded.contribution, tasks=excluded.tasks,
			methods=excluded.methods, datasets=excluded.datasets, code_links=excluded.code_links`,
		p.ID, p.Title, p.Abstract, marshalList(p.Authors), p.Year, p.Contribution,
		marshalList(p.Tasks), marshalList(p.Methods), marshalList(p.Datasets), marshalList(p.CodeLinks),
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", p.ID, err)
	}
	return nil
}

// GetPaper returns the paper with the given ID, or ErrNotFound.
func (s *Store) GetPaper(ctx context.Context, id string) (types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, abstract, authors, year, contribution, tasks, methods, datasets, code_links
		 FROM papers WHERE id = ?`, id)

	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return types.Paper{}, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("querying paper %s: %w", id, err)
	}
	return p, nil
}

// ListCandidates returns all papers passing the filters, ordered by ID.
// It implements rank.CandidateSource, pushing the has_code predicate into
// SQL so large corpora are trimmed before ranking.
func (s *Store) ListCandidates(ctx context.Context, f rank.Filters) ([]types.Paper, error) {
	query := `SELECT id, title, abstract, authors, year, contribution, tasks, methods, datasets, code_links
		 FROM papers`
	if f.HasCode != nil {
		if *f.HasCode {
			query += ` WHERE code_links != '[]' AND code_links != ''`
		} else {
			query += ` WHERE code_links = '[]' OR code_links = ''`
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// CountPapers returns the number of stored papers.
func (s *Store) CountPapers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// marshalList encodes a string list as JSON, storing nil as "[]" so the
// has_code predicate can compare against a single empty form.
func marshalList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(sc scanner) (types.Paper, error) {
	var p types.Paper
	var authors, tasks, methods, datasets, links string
	if err := sc.Scan(
		&p.ID, &p.Title, &p.Abstract, &authors, &p.Year, &p.Contribution,
		&tasks, &methods, &datasets, &links,
	); err != nil {
		return types.Paper{}, err
	}

	json.Unmarshal([]byte(authors), &p.Authors)
	json.Unmarshal([]byte(tasks), &p.Tasks)
	json.Unmarshal([]byte(methods), &p.Methods)
	json.Unmarshal([]byte(datasets), &p.Datasets)
	json.Unmarshal([]byte(links), &p.CodeLinks)
	return p, nil
}
