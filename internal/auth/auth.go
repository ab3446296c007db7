// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth handles account registration, login, and session
// resolution. Passwords are stored as argon2id hashes and sessions are
// opaque random tokens persisted with an expiry.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JosephJoshua/onepaper/internal/store"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

const (
	defaultSessionTTL = 720 * time.Hour
	minPasswordLen    = 8
	tokenBytes        = 32
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords.
	// Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword indicates the password fails the minimum length.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLen)

	// ErrInvalidEmail indicates the email address is unusable.
	ErrInvalidEmail = errors.New("invalid email address")
)

// Accounts is the subset of the store the authenticator needs.
type Accounts interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (types.User, error)
	GetUserCredentials(ctx context.Context, email string) (types.User, string, error)
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetSessionUser(ctx context.Context, token string) (types.User, error)
}

// Authenticator implements the account and session operations.
type Authenticator struct {
	accounts   Accounts
	sessionTTL time.Duration
}

// NewAuthenticator builds an authenticator. A zero TTL defaults to 30
// days.
func NewAuthenticator(accounts Accounts, sessionTTL time.Duration) *Authenticator {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &Authenticator{accounts: accounts, sessionTTL: sessionTTL}
}

// Register creates an account. The email is lowercased before storage so
// lookups are case-insensitive.
func (a *Authenticator) Register(ctx context.Context, email, name, password string) (types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return types.User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return types.User{}, ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return types.User{}, fmt.Errorf("hashing password: %w", err)
	}
	return a.accounts.CreateUser(ctx, email, name, hash)
}

// Login verifies the credentials and mints a session token.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, hash, err := a.accounts.GetUserCredentials(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", types.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", types.User{}, fmt.Errorf("looking up credentials: %w", err)
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		return "", types.User{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return "", types.User{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", types.User{}, err
	}
	if err := a.accounts.CreateSession(ctx, token, user.ID, time.Now().Add(a.sessionTTL)); err != nil {
		return "", types.User{}, fmt.Errorf("creating session: %w", err)
	}
	return token, user, nil
}

// Resolve maps a session token to its user. Unknown and expired tokens
// return ErrInvalidCredentials.
func (a *Authenticator) Resolve(ctx context.Context, token string) (types.User, error) {
	user, err := a.accounts.GetSessionUser(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return types.User{}, fmt.Errorf("resolving session: %w", err)
	}
	return user, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
