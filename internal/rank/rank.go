// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank fuses keyword-tier and semantic-similarity signals into one
// deterministic, paginated ordering over the paper corpus.
//
// Keyword tier is the primary sort key: papers matching the query in the
// title rank before abstract matches, which rank before everything else.
// Semantic similarity orders papers within a tier, and the paper ID breaks
// exact ties so repeated identical queries produce identical orderings.
package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

const (
	defaultSemanticMultiplier = 5
	defaultSemanticFloor      = 50
)

// Neighbor is one nearest-neighbor hit from the semantic index.
type Neighbor struct {
	PaperID string

	// Similarity is a cosine-similarity score in [0, 1].
	Similarity float64
}

// SemanticSource embeds a query and looks up its nearest neighbors in the
// vector index. Implementations must support concurrent calls.
type SemanticSource interface {
	Embed(ctx context.Context, query string) ([]float32, error)
	Nearest(ctx context.Context, vector []float32, k int) ([]Neighbor, error)
}

// CandidateSource lists the papers eligible for ranking. Implementations
// should push the filters down to storage where possible; the engine
// re-applies them as pure predicates either way, so both behaviors produce
// the same result.
type CandidateSource interface {
	ListCandidates(ctx context.Context, f Filters) ([]types.Paper, error)
}

// Engine ranks papers for search requests. It is stateless between
// requests and safe for concurrent use.
type Engine struct {
	candidates CandidateSource
	semantic   SemanticSource
	cfg        types.SearchConfig
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a ranking engine. The semantic source may be nil, in
// which case every search runs in keyword-only mode.
func NewEngine(candidates CandidateSource, semantic SemanticSource, cfg types.SearchConfig, opts ...Option) (*Engine, error) {
	if candidates == nil {
		return nil, ErrCandidateSourceRequired
	}

	if cfg.SemanticMultiplier <= 0 {
		cfg.SemanticMultiplier = defaultSemanticMultiplier
	}
	if cfg.SemanticFloor <= 0 {
		cfg.SemanticFloor = defaultSemanticFloor
	}

	e := &Engine{
		candidates: candidates,
		semantic:   semantic,
		cfg:        cfg,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Request holds one search invocation. Page starts at 1.
type Request struct {
	Query   string
	Filters Filters
	Page    int
	PerPage int
}

// Result is one page of ranked results.
type Result struct {
	Items      []types.PaperSummary `json:"items"`
	TotalItems int                  `json:"total_items"`
	TotalPages int                  `json:"total_pages"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
}

// Search validates the request, ranks the candidate set, and returns the
// requested page. Validation failures are the only error paths; loss of
// the semantic signal degrades to keyword-only ranking and the request
// still succeeds.
func (e *Engine) Search(ctx context.Context, req Request) (Result, error) {
	if err := req.Filters.Validate(); err != nil {
		return Result{}, err
	}
	if req.Page < 1 {
		return Result{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPagination, req.Page)
	}
	if req.PerPage < 1 {
		return Result{}, fmt.Errorf("%w: per_page must be >= 1, got %d", ErrInvalidPagination, req.PerPage)
	}

	candidates, err := e.candidates.ListCandidates(ctx, req.Filters)
	if err != nil {
		return Result{}, fmt.Errorf("listing candidates: %w", err)
	}
	candidates = req.Filters.Apply(candidates)

	ranked := e.rank(ctx, req.Query, candidates, req.PerPage)
	return paginate(ranked, req.Page, req.PerPage), nil
}

// rank orders the candidates. For a non-empty query the primary key is the
// keyword tier, the secondary key is semantic similarity (0 for papers
// outside the retrieved top-k), and the paper ID breaks remaining ties.
// An empty query is a browse request: most recent year first, ID ascending.
func (e *Engine) rank(ctx context.Context, query string, candidates []types.Paper, perPage int) []types.Paper {
	ranked := make([]types.Paper, len(candidates))
	copy(ranked, candidates)

	if normalizeQuery(query) == "" {
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Year != ranked[j].Year {
				return ranked[i].Year > ranked[j].Year
			}
			return ranked[i].ID < ranked[j].ID
		})
		return ranked
	}

	tiers := matchTiers(query, ranked)
	sims := e.similarities(ctx, query, perPage)

	sort.Slice(ranked, func(i, j int) bool {
		ti, tj := tiers[ranked[i].ID], tiers[ranked[j].ID]
		if ti != tj {
			return ti > tj
		}
		si, sj := sims[ranked[i].ID], sims[ranked[j].ID]
		if si != sj {
			return si > sj
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// similarities retrieves the semantic scores for the query. Any adapter
// failure degrades to an empty map (similarity 0 for every candidate): a
// warning is logged and ranking continues on keyword tier alone.
func (e *Engine) similarities(ctx context.Context, query string, perPage int) map[string]float64 {
	if e.semantic == nil {
		return nil
	}

	vector, err := e.semantic.Embed(ctx, query)
	if err != nil {
		e.logger.Warn("semantic signal unavailable, ranking on keyword tier only", "stage", "embed", "err", err)
		return nil
	}

	k := e.cfg.SemanticMultiplier * perPage
	if k < e.cfg.SemanticFloor {
		k = e.cfg.SemanticFloor
	}

	neighbors, err := e.semantic.Nearest(ctx, vector, k)
	if err != nil {
		e.logger.Warn("semantic signal unavailable, ranking on keyword tier only", "stage", "nearest", "err", err)
		return nil
	}

	sims := make(map[string]float64, len(neighbors))
	for _, n := range neighbors {
		s := n.Similarity
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		sims[n.PaperID] = s
	}
	return sims
}
