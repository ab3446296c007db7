// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JosephJoshua/onepaper/internal/api"
	"github.com/JosephJoshua/onepaper/internal/auth"
	"github.com/JosephJoshua/onepaper/internal/embed"
	"github.com/JosephJoshua/onepaper/internal/ingest"
	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/internal/store"
	"github.com/JosephJoshua/onepaper/internal/vector"
	"github.com/JosephJoshua/onepaper/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the paper library over HTTP",
	Long: `Serve starts the HTTP API: search and browse, paper detail, arXiv
submissions, accounts, and bookmarks. Without an AI endpoint configured
the server still runs, ranking on keyword tier alone.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger := slog.Default()

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

	var semantic rank.SemanticSource
	pipelineOpts := []ingest.Option{}
	if aiConfigured(cfg.AI) {
		embedder, err := embed.NewOpenAIEmbedder(cfg.AI)
		if err != nil {
			return err
		}
		extractor, err := ingest.NewLLMExtractor(cfg.AI)
		if err != nil {
			return err
		}
		semantic = embed.NewSemantic(embedder, idx)
		pipelineOpts = append(pipelineOpts,
			ingest.WithExtractor(extractor),
			ingest.WithSemanticIndex(embedder, idx),
		)
	} else {
		logger.Warn("no AI endpoint configured, running keyword-only")
	}

	pipeline, err := ingest.NewPipeline(s, ingest.NewArxivClient(cfg.Ingest.HTTPConfig), cfg.Ingest, pipelineOpts...)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	engine, err := rank.NewEngine(s, semantic, cfg.Search)
	if err != nil {
		return err
	}

	authenticator := auth.NewAuthenticator(s, cfg.Server.SessionTTL)
	server := api.New(engine, s, authenticator, pipeline, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// aiConfigured reports whether an embedding/extraction endpoint is
// usable: either a key for the hosted API or a local base URL.
func aiConfigured(cfg types.AIConfig) bool {
	return cfg.APIKey != "" || cfg.BaseURL != ""
}
