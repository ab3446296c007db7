// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JosephJoshua/onepaper/internal/embed"
	"github.com/JosephJoshua/onepaper/internal/ingest"
	"github.com/JosephJoshua/onepaper/internal/store"
	"github.com/JosephJoshua/onepaper/internal/vector"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit <arxiv-id>...",
	Short: "Add papers to the library by arXiv ID",
	Long: `Submit fetches metadata for each arXiv ID, runs LLM extraction when an
AI endpoint is configured, and indexes the papers for search. IDs may be
bare (2301.07041), versioned, or full arxiv.org URLs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, err := vector.New(cfg.Vector, s)
	if err != nil {
		return err
	}
	defer idx.Close()

	opts := []ingest.Option{}
	if aiConfigured(cfg.AI) {
		embedder, err := embed.NewOpenAIEmbedder(cfg.AI)
		if err != nil {
			return err
		}
		extractor, err := ingest.NewLLMExtractor(cfg.AI)
		if err != nil {
			return err
		}
		opts = append(opts, ingest.WithExtractor(extractor), ingest.WithSemanticIndex(embedder, idx))
	}

	pipeline, err := ingest.NewPipeline(s, ingest.NewArxivClient(cfg.Ingest.HTTPConfig), cfg.Ingest, opts...)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx := context.Background()
	jobs := make(map[string]string, len(args))
	for _, arg := range args {
		sub, err := pipeline.Submit(ctx, arg)
		if err != nil {
			return fmt.Errorf("submitting %s: %w", arg, err)
		}
		jobs[sub.ID] = sub.ArxivID
	}
	pipeline.Wait()

	failed := 0
	for jobID, arxivID := range jobs {
		sub, err := s.GetSubmission(ctx, jobID)
		if err != nil {
			return err
		}
		switch sub.Status {
		case types.SubmissionCompleted:
			fmt.Printf("%s: added\n", arxivID)
		default:
			failed++
			fmt.Printf("%s: %s (%s)\n", arxivID, sub.Status, sub.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d submission(s) failed", failed)
	}
	return nil
}
