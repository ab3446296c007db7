// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// CreateUser registers a new account with a pre-computed password hash.
// Returns ErrDuplicate if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash string) (types.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?)`,
		email, name, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, fmt.Errorf("email %s: %w", email, ErrDuplicate)
		}
		return types.User{}, fmt.Errorf("creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return types.User{}, fmt.Errorf("reading new user id: %w", err)
	}
	return types.User{ID: id, Email: email, Name: name}, nil
}

// GetUserCredentials returns the user and stored password hash for an
// email, or ErrNotFound.
func (s *Store) GetUserCredentials(ctx context.Context, email string) (types.User, string, error) {
	var u types.User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &hash)
	if err == sql.ErrNoRows {
		return types.User{}, "", fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return types.User{}, "", fmt.Errorf("querying user: %w", err)
	}
	return u, hash, nil
}

// CreateSession persists an opaque login token with an expiry.
func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a token to its user. Expired or unknown tokens
// return ErrNotFound; expired rows are removed on access.
func (s *Store) GetSessionUser(ctx context.Context, token string) (types.User, error) {
	var u types.User
	var expires string
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.name, s.expires_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ?`, token,
	).Scan(&u.ID, &u.Email, &u.Name, &expires)
	if err == sql.ErrNoRows {
		return types.User{}, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("querying session: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339, expires)
	if err != nil || time.Now().After(expiresAt) {
		s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return types.User{}, fmt.Errorf("session expired: %w", ErrNotFound)
	}
	return u, nil
}

// isUniqueViolation matches SQLite's unique-constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
