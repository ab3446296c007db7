// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"

	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/internal/vector"
)

// Semantic pairs an embedder with a vector index to form the semantic
// signal consumed by the ranking engine.
type Semantic struct {
	embedder Embedder
	index    vector.Index
}

var _ rank.SemanticSource = (*Semantic)(nil)

// NewSemantic builds the adapter.
func NewSemantic(embedder Embedder, index vector.Index) *Semantic {
	return &Semantic{embedder: embedder, index: index}
}

// Embed produces the query vector.
func (s *Semantic) Embed(ctx context.Context, query string) ([]float32, error) {
	return s.embedder.Embed(ctx, query)
}

// Nearest returns the k stored vectors closest to the query vector.
func (s *Semantic) Nearest(ctx context.Context, vec []float32, k int) ([]rank.Neighbor, error) {
	return s.index.Nearest(ctx, vec, k)
}
