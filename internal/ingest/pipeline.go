// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs the submission pipeline: fetch metadata from
// arXiv, enrich it with LLM extraction, persist the paper, and index its
// embedding. Jobs run asynchronously on a bounded worker pool and report
// progress through the submission state machine.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/JosephJoshua/onepaper/internal/embed"
	"github.com/JosephJoshua/onepaper/internal/vector"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

const defaultWorkers = 2

// Library is the subset of the store the pipeline writes to.
type Library interface {
	UpsertPaper(ctx context.Context, p types.Paper) error
	CreateSubmission(ctx context.Context, sub types.Submission) error
	SetSubmissionStatus(ctx context.Context, id string, next types.SubmissionStatus, errMsg string) error
}

// MetadataSource fetches paper metadata for an arXiv ID.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, arxivID string) (types.Paper, error)
}

// Pipeline accepts arXiv submissions and processes them in the
// background.
type Pipeline struct {
	library   Library
	metadata  MetadataSource
	extractor Extractor
	embedder  embed.Embedder
	index     vector.Index
	pool      *ants.Pool
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtractor enables LLM enrichment. Without it papers carry only
// arXiv metadata.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithSemanticIndex enables embedding and indexing of ingested papers.
func WithSemanticIndex(embedder embed.Embedder, index vector.Index) Option {
	return func(p *Pipeline) {
		p.embedder = embedder
		p.index = index
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline builds a pipeline with the given pool size. Workers
// defaults to 2 when the configuration leaves it unset.
func NewPipeline(library Library, metadata MetadataSource, cfg types.IngestConfig, opts ...Option) (*Pipeline, error) {
	if library == nil {
		return nil, fmt.Errorf("library is required")
	}
	if metadata == nil {
		return nil, fmt.Errorf("metadata source is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	p := &Pipeline{
		library:  library,
		metadata: metadata,
		pool:     pool,
		logger:   slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Submit validates the identifier, records a pending submission, and
// queues it for processing. The returned submission carries the job ID
// the caller polls for status.
func (p *Pipeline) Submit(ctx context.Context, rawID string) (types.Submission, error) {
	arxivID, err := NormalizeArxivID(rawID)
	if err != nil {
		return types.Submission{}, err
	}

	now := time.Now().UTC()
	sub := types.Submission{
		ID:        uuid.NewString(),
		ArxivID:   arxivID,
		Status:    types.SubmissionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.library.CreateSubmission(ctx, sub); err != nil {
		return types.Submission{}, fmt.Errorf("recording submission: %w", err)
	}

	p.wg.Add(1)
	err = p.pool.Submit(func() {
		defer p.wg.Done()
		p.process(sub.ID, arxivID)
	})
	if err != nil {
		p.wg.Done()
		p.fail(sub.ID, fmt.Errorf("queueing job: %w", err))
		return types.Submission{}, fmt.Errorf("queueing submission %s: %w", sub.ID, err)
	}
	return sub, nil
}

// process runs one job to a terminal state. Metadata fetch and paper
// persistence failures fail the job; extraction and indexing are
// enrichment steps whose failures are logged and skipped.
func (p *Pipeline) process(jobID, arxivID string) {
	ctx := context.Background()
	logger := p.logger.With("job", jobID, "arxiv_id", arxivID)

	if err := p.library.SetSubmissionStatus(ctx, jobID, types.SubmissionProcessing, ""); err != nil {
		logger.Error("marking submission processing", "err", err)
		return
	}

	paper, err := p.metadata.FetchMetadata(ctx, arxivID)
	if err != nil {
		logger.Error("fetching arXiv metadata", "err", err)
		p.fail(jobID, err)
		return
	}

	if p.extractor != nil {
		extraction, err := p.extractor.Extract(ctx, paper)
		if err != nil {
			logger.Warn("extraction failed, storing arXiv metadata only", "err", err)
		} else {
			paper.Contribution = extraction.Contribution
			paper.Tasks = extraction.Tasks
			paper.Methods = extraction.Methods
			paper.Datasets = extraction.Datasets
			paper.CodeLinks = extraction.CodeLinks
		}
	}

	if err := p.library.UpsertPaper(ctx, paper); err != nil {
		logger.Error("persisting paper", "err", err)
		p.fail(jobID, err)
		return
	}

	if p.embedder != nil && p.index != nil {
		if err := p.indexPaper(ctx, paper); err != nil {
			logger.Warn("indexing failed, paper will rank on keyword tier only", "err", err)
		}
	}

	if err := p.library.SetSubmissionStatus(ctx, jobID, types.SubmissionCompleted, ""); err != nil {
		logger.Error("marking submission completed", "err", err)
	}
}

func (p *Pipeline) indexPaper(ctx context.Context, paper types.Paper) error {
	vec, err := p.embedder.Embed(ctx, embed.DocumentText(paper))
	if err != nil {
		return fmt.Errorf("embedding paper %s: %w", paper.ID, err)
	}
	if err := p.index.Upsert(ctx, paper.ID, vec); err != nil {
		return fmt.Errorf("indexing paper %s: %w", paper.ID, err)
	}
	return nil
}

func (p *Pipeline) fail(jobID string, cause error) {
	if err := p.library.SetSubmissionStatus(context.Background(), jobID, types.SubmissionFailed, cause.Error()); err != nil {
		p.logger.Error("marking submission failed", "job", jobID, "err", err)
	}
}

// Wait blocks until all queued jobs reach a terminal state.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Close drains in-flight jobs and releases the worker pool.
func (p *Pipeline) Close() {
	p.wg.Wait()
	p.pool.Release()
}
