// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the onepaper CLI. It serves the
// paper-library HTTP API and offers search, submit, and papers
// subcommands for working with the library from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JosephJoshua/onepaper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the onepaper CLI.
var rootCmd = &cobra.Command{
	Use:   "onepaper",
	Short: "A personal research-paper library with hybrid search",
	Long: `onepaper keeps a local library of machine learning papers. Papers are
submitted by arXiv ID, enriched with LLM-extracted metadata, and indexed
for hybrid keyword-plus-semantic search.

Run "onepaper serve" to expose the library over HTTP, or use the search,
submit, and papers subcommands directly from the terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; secrets in .secrets/ take effect only where
		// the config leaves a key empty.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./onepaper.yaml or ~/.config/onepaper/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("onepaper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "onepaper"))
		}
	}

	viper.SetEnvPrefix("ONEPAPER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
