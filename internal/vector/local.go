// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/internal/store"
)

// EmbeddingSource supplies the persisted vectors the local index scans.
// *store.Store satisfies it.
type EmbeddingSource interface {
	AllEmbeddings(ctx context.Context) ([]store.StoredEmbedding, error)
	PutEmbedding(ctx context.Context, paperID string, vector []float32) error
}

// LocalIndex answers nearest-neighbor queries by exact cosine similarity
// over every embedding in the store. Fine for libraries of a few
// thousand papers; larger installs should run the Qdrant backend.
type LocalIndex struct {
	embeddings EmbeddingSource
}

// NewLocalIndex builds a brute-force index over the given source.
func NewLocalIndex(embeddings EmbeddingSource) *LocalIndex {
	return &LocalIndex{embeddings: embeddings}
}

// Upsert writes the vector through to the store.
func (l *LocalIndex) Upsert(ctx context.Context, paperID string, vector []float32) error {
	return l.embeddings.PutEmbedding(ctx, paperID, vector)
}

// Nearest scans all stored embeddings and returns the k most similar.
func (l *LocalIndex) Nearest(ctx context.Context, vector []float32, k int) ([]rank.Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	stored, err := l.embeddings.AllEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading embeddings: %w", err)
	}

	neighbors := make([]rank.Neighbor, 0, len(stored))
	for _, e := range stored {
		sim, err := cosineSimilarity(vector, e.Vector)
		if err != nil {
			return nil, fmt.Errorf("comparing with %s: %w", e.PaperID, err)
		}
		neighbors = append(neighbors, rank.Neighbor{PaperID: e.PaperID, Similarity: sim})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].PaperID < neighbors[j].PaperID
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Close is a no-op; the underlying store is owned by the caller.
func (l *LocalIndex) Close() error { return nil }

// cosineSimilarity returns the cosine of the angle between two vectors,
// clamped to [0, 1] so it composes with similarity scores from remote
// backends.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, sim)), nil
}
