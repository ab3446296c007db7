// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JosephJoshua/onepaper/internal/auth"
	"github.com/JosephJoshua/onepaper/internal/ingest"
	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/internal/store"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type submitRequest struct {
	ArxivID string `json:"arxiv_id" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := s.sessions.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, _, err := s.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// handleSearch serves both search and browse. An empty search term
// lists the library newest first; any query parameter other than
// search, page, and per_page is treated as a filter.
func (s *Server) handleSearch(c *gin.Context) {
	req := rank.Request{
		Query:   c.Query("search"),
		Page:    1,
		PerPage: defaultPerPage,
	}

	var err error
	if raw := c.Query("page"); raw != "" {
		if req.Page, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid page %q", raw)})
			return
		}
	}
	if raw := c.Query("per_page"); raw != "" {
		if req.PerPage, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid per_page %q", raw)})
			return
		}
	}
	if req.PerPage > maxPerPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("per_page must be <= %d", maxPerPage)})
		return
	}

	rawFilters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "search", "page", "per_page":
			continue
		}
		if len(values) > 0 {
			rawFilters[key] = values[0]
		}
	}
	if req.Filters, err = rank.ParseFilters(rawFilters); err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.search.Search(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetPaper(c *gin.Context) {
	paper, err := s.library.GetPaper(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paper)
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arxiv_id is required"})
		return
	}

	sub, err := s.submitter.Submit(c.Request.Context(), req.ArxivID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, sub)
}

func (s *Server) handleGetSubmission(c *gin.Context) {
	sub, err := s.library.GetSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) handleListBookmarks(c *gin.Context) {
	papers, err := s.library.ListBookmarks(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	c.JSON(http.StatusOK, papers)
}

func (s *Server) handleAddBookmark(c *gin.Context) {
	if err := s.library.AddBookmark(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"paper_id": c.Param("id")})
}

func (s *Server) handleRemoveBookmark(c *gin.Context) {
	if err := s.library.RemoveBookmark(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps domain errors onto HTTP status codes. Unmapped errors
// are logged and reported as 500 without leaking details.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rank.ErrInvalidFilter),
		errors.Is(err, rank.ErrInvalidPagination),
		errors.Is(err, ingest.ErrInvalidArxivID),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
