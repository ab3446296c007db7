// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/JosephJoshua/onepaper/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the onepaper configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter onepaper.yaml with the default settings",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	const path = "onepaper.yaml"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// loadAppConfig builds the application configuration from viper. Keys
// come from the YAML config file and ONEPAPER_-prefixed environment
// variables; the OpenAI API key falls back to .secrets/openai-api-key.
func loadAppConfig() (types.AppConfig, error) {
	viper.SetDefault("storage.path", "data/onepaper.db")
	viper.SetDefault("vector.backend", string(types.VectorLocal))
	viper.SetDefault("vector.addr", "localhost:6334")
	viper.SetDefault("vector.collection", "papers")
	viper.SetDefault("vector.dimension", 384)
	viper.SetDefault("ai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("ai.extraction_model", "gpt-4o-mini")
	viper.SetDefault("ingest.workers", 2)
	viper.SetDefault("ingest.timeout", "30s")
	viper.SetDefault("ingest.user_agent", "onepaper/"+version)
	viper.SetDefault("search.semantic_multiplier", 5)
	viper.SetDefault("search.semantic_floor", 50)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.session_ttl", "720h")

	ingestTimeout, err := time.ParseDuration(viper.GetString("ingest.timeout"))
	if err != nil {
		return types.AppConfig{}, fmt.Errorf("parsing ingest.timeout: %w", err)
	}
	sessionTTL, err := time.ParseDuration(viper.GetString("server.session_ttl"))
	if err != nil {
		return types.AppConfig{}, fmt.Errorf("parsing server.session_ttl: %w", err)
	}

	cfg := types.AppConfig{
		Storage: types.StorageConfig{
			Path: viper.GetString("storage.path"),
		},
		Vector: types.VectorConfig{
			Backend:    types.VectorBackend(viper.GetString("vector.backend")),
			Addr:       viper.GetString("vector.addr"),
			Collection: viper.GetString("vector.collection"),
			Dimension:  viper.GetInt("vector.dimension"),
		},
		AI: types.AIConfig{
			BaseURL:         viper.GetString("ai.base_url"),
			APIKey:          secretDefault("openai-api-key", viper.GetString("ai.api_key")),
			EmbeddingModel:  viper.GetString("ai.embedding_model"),
			ExtractionModel: viper.GetString("ai.extraction_model"),
		},
		Ingest: types.IngestConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   ingestTimeout,
				UserAgent: viper.GetString("ingest.user_agent"),
			},
			Workers: viper.GetInt("ingest.workers"),
		},
		Search: types.SearchConfig{
			SemanticMultiplier: viper.GetInt("search.semantic_multiplier"),
			SemanticFloor:      viper.GetInt("search.semantic_floor"),
		},
		Server: types.ServerConfig{
			Addr:       viper.GetString("server.addr"),
			SessionTTL: sessionTTL,
		},
	}
	return cfg, nil
}
