// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the paper library over HTTP: search and browse,
// paper detail, arXiv submissions, accounts, and bookmarks.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

// Searcher ranks papers for search requests.
type Searcher interface {
	Search(ctx context.Context, req rank.Request) (rank.Result, error)
}

// Library is the subset of the store the API reads and writes.
type Library interface {
	GetPaper(ctx context.Context, id string) (types.Paper, error)
	GetSubmission(ctx context.Context, id string) (types.Submission, error)
	AddBookmark(ctx context.Context, userID int64, paperID string) error
	RemoveBookmark(ctx context.Context, userID int64, paperID string) error
	ListBookmarks(ctx context.Context, userID int64) ([]types.Paper, error)
}

// Sessions handles accounts and login tokens.
type Sessions interface {
	Register(ctx context.Context, email, name, password string) (types.User, error)
	Login(ctx context.Context, email, password string) (string, types.User, error)
	Resolve(ctx context.Context, token string) (types.User, error)
}

// Submitter queues arXiv IDs for ingestion.
type Submitter interface {
	Submit(ctx context.Context, rawID string) (types.Submission, error)
}

// Server wires the handlers to their dependencies.
type Server struct {
	search    Searcher
	library   Library
	sessions  Sessions
	submitter Submitter
	logger    *slog.Logger
}

// New builds a server.
func New(search Searcher, library Library, sessions Sessions, submitter Submitter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		search:    search,
		library:   library,
		sessions:  sessions,
		submitter: submitter,
		logger:    logger.With("component", "api"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/users/register", s.handleRegister)
	r.POST("/token", s.handleLogin)

	r.GET("/papers", s.handleSearch)
	r.GET("/papers/:id", s.handleGetPaper)

	r.POST("/submissions", s.handleSubmit)
	r.GET("/submissions/:id", s.handleGetSubmission)

	authed := r.Group("/", s.requireAuth())
	authed.GET("/users/me", s.handleMe)
	authed.GET("/me/bookmarks", s.handleListBookmarks)
	authed.POST("/papers/:id/bookmark", s.handleAddBookmark)
	authed.DELETE("/papers/:id/bookmark", s.handleRemoveBookmark)

	return r
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

const userKey = "onepaper.user"

// requireAuth resolves the bearer token and stores the user in the
// request context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := s.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// currentUser returns the user set by requireAuth.
func currentUser(c *gin.Context) types.User {
	return c.MustGet(userKey).(types.User)
}
