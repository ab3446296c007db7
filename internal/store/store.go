// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers, users, bookmarks, submissions, and
// embeddings in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert collides with an existing
	// record (email already registered, paper already bookmarked).
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidTransition is returned when a submission status update
	// does not follow the pending -> processing -> completed/failed
	// state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store manages the onepaper SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and creates the schema
// if it does not exist.
func Open(cfg types.StorageConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "onepaper.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '[]',
			year INTEGER NOT NULL DEFAULT 0,
			contribution TEXT NOT NULL DEFAULT '',
			tasks TEXT NOT NULL DEFAULT '[]',
			methods TEXT NOT NULL DEFAULT '[]',
			datasets TEXT NOT NULL DEFAULT '[]',
			code_links TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			expires_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			user_id INTEGER NOT NULL REFERENCES users(id),
			paper_id TEXT NOT NULL REFERENCES papers(id),
			created_at TEXT NOT NULL,
			PRIMARY KEY (user_id, paper_id)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			arxiv_id TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			paper_id TEXT PRIMARY KEY REFERENCES papers(id),
			dim INTEGER NOT NULL,
			vector BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_arxiv ON submissions(arxiv_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
