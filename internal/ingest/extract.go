// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

// Extraction holds the structured fields an LLM pulls from a paper's
// title and abstract.
type Extraction struct {
	Contribution string   `json:"contribution"`
	Tasks        []string `json:"tasks"`
	Methods      []string `json:"methods"`
	Datasets     []string `json:"datasets"`
	CodeLinks    []string `json:"code_links"`
}

// Extractor produces structured metadata for a paper.
type Extractor interface {
	Extract(ctx context.Context, paper types.Paper) (Extraction, error)
}

// LLMExtractor asks an OpenAI-compatible chat model for structured
// metadata in JSON mode.
type LLMExtractor struct {
	client llms.Model
	logger *slog.Logger
}

const extractionSystemPrompt = `You are an expert research assistant. Given the title and abstract of a machine learning paper, extract:
- "contribution": one sentence stating the paper's main contribution
- "tasks": the tasks the paper addresses (e.g. "Image Classification")
- "methods": the key methods or architectures used
- "datasets": the datasets evaluated on
- "code_links": any code repository URLs mentioned

Respond with a single JSON object with exactly those keys. Use empty arrays for fields not present in the text. Do not invent URLs.`

// NewLLMExtractor builds an extractor from the AI configuration.
func NewLLMExtractor(cfg types.AIConfig) (*LLMExtractor, error) {
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.ExtractionModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating extraction client: %w", err)
	}

	return &LLMExtractor{
		client: client,
		logger: slog.Default().With("component", "extractor"),
	}, nil
}

// Extract sends the title and abstract to the model and parses the JSON
// response. Malformed JSON is retried up to 3 times.
func (e *LLMExtractor) Extract(ctx context.Context, paper types.Paper) (Extraction, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(extractionSystemPrompt)},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("Title: %s\n\nAbstract: %s", paper.Title, paper.Abstract)),
			},
		},
	}

	var result Extraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			return Extraction{}, fmt.Errorf("extraction request: %w", err)
		}
		if len(response.Choices) < 1 {
			return Extraction{}, fmt.Errorf("extraction model returned no choices")
		}

		text := stripCodeFences(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(text), &result); err != nil {
			lastErr = err
			e.logger.Warn("malformed extraction response", "attempt", attempt+1, "err", err)
			continue
		}
		return result, nil
	}
	return Extraction{}, fmt.Errorf("parsing extraction response: %w", lastErr)
}

// stripCodeFences removes a markdown code fence wrapper if the model
// added one despite JSON mode.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
