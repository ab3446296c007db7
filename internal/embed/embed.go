// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns text into vectors via an OpenAI-compatible
// embeddings API and adapts the vector index into the semantic signal
// the ranking engine consumes.
package embed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// Embedder produces embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewOpenAIEmbedder builds an embedder from the AI configuration. Local
// OpenAI-compatible servers work without a key; "none" is sent so the
// client does not reject the empty token.
func NewOpenAIEmbedder(cfg types.AIConfig) (*OpenAIEmbedder, error) {
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating embeddings client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("wrapping embeddings client: %w", err)
	}

	return &OpenAIEmbedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "embedder"),
	}, nil
}

// Embed generates the vector for one text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embeddings API returned no vector")
	}
	return vectors[0], nil
}

// DocumentText is the canonical text embedded for a paper. Query vectors
// and document vectors must come from the same model for the similarity
// scores to be meaningful.
func DocumentText(p types.Paper) string {
	if p.Abstract == "" {
		return p.Title
	}
	return p.Title + ". " + p.Abstract
}
