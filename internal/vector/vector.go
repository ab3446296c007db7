// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector indexes paper embeddings and answers nearest-neighbor
// queries. Two backends are available: a Qdrant collection reached over
// gRPC, and a local brute-force index over embeddings persisted in
// SQLite for installs that do not run a vector database.
package vector

import (
	"context"
	"fmt"

	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

// Index stores embedding vectors keyed by paper ID and retrieves the
// closest ones to a query vector.
type Index interface {
	// Upsert inserts or replaces the vector for a paper.
	Upsert(ctx context.Context, paperID string, vector []float32) error

	// Nearest returns up to k neighbors ordered by descending cosine
	// similarity.
	Nearest(ctx context.Context, vector []float32, k int) ([]rank.Neighbor, error)

	// Close releases backend resources.
	Close() error
}

// New builds the index named by the configuration.
func New(cfg types.VectorConfig, embeddings EmbeddingSource) (Index, error) {
	switch cfg.Backend {
	case types.VectorQdrant:
		return NewQdrantIndex(cfg)
	case types.VectorLocal, "":
		return NewLocalIndex(embeddings), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Backend)
	}
}
