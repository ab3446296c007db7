// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with outbound requests
	// (e.g. "onepaper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StorageConfig holds settings for the SQLite store.
type StorageConfig struct {
	// Path is the SQLite database file (default "data/onepaper.db").
	Path string `json:"path" yaml:"path"`
}

// VectorBackend identifies the vector index implementation.
type VectorBackend string

const (
	// VectorQdrant uses a remote Qdrant instance over gRPC.
	VectorQdrant VectorBackend = "qdrant"

	// VectorLocal uses exact cosine search over embeddings stored in SQLite.
	VectorLocal VectorBackend = "local"
)

// VectorConfig holds settings for the semantic index.
type VectorConfig struct {
	// Backend selects the index implementation: qdrant or local.
	Backend VectorBackend `json:"backend" yaml:"backend"`

	// Addr is the Qdrant gRPC address (default "localhost:6334").
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Collection is the Qdrant collection name (default "papers").
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`

	// Dimension is the embedding vector dimension (default 384).
	Dimension int `json:"dimension" yaml:"dimension"`
}

// AIConfig holds settings for OpenAI-compatible embedding and chat APIs.
type AIConfig struct {
	// BaseURL is the API base URL. Local OpenAI-compatible servers work
	// with an empty APIKey.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey authenticates requests. Usually supplied via .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EmbeddingModel is the embedding model identifier (default
	// "text-embedding-3-small").
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// ExtractionModel is the chat model used for structured extraction.
	ExtractionModel string `json:"extraction_model" yaml:"extraction_model"`
}

// IngestConfig holds settings for the submission pipeline.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Workers is the ingestion pool size (default 2).
	Workers int `json:"workers" yaml:"workers"`
}

// SearchConfig holds settings for the ranking engine.
type SearchConfig struct {
	// SemanticMultiplier scales the per-page size into the nearest-neighbor
	// k so fusion has enough semantic candidates to interleave with keyword
	// hits (default 5).
	SemanticMultiplier int `json:"semantic_multiplier" yaml:"semantic_multiplier"`

	// SemanticFloor is the minimum nearest-neighbor k regardless of page
	// size (default 50).
	SemanticFloor int `json:"semantic_floor" yaml:"semantic_floor"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// SessionTTL is how long login sessions stay valid (default 720h).
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl"`
}

// AppConfig groups all stage configurations.
type AppConfig struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Vector  VectorConfig  `json:"vector" yaml:"vector"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Ingest  IngestConfig  `json:"ingest" yaml:"ingest"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}
