// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JosephJoshua/onepaper/internal/embed"
	"github.com/JosephJoshua/onepaper/internal/rank"
	"github.com/JosephJoshua/onepaper/internal/store"
	"github.com/JosephJoshua/onepaper/internal/vector"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the paper library",
	Long: `Search ranks the library against a query: papers matching in the title
come first, then abstract matches, then everything else, with semantic
similarity ordering papers inside each group. Without a query the
library is listed newest first.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("page", 1, "result page, starting at 1")
	searchCmd.Flags().Int("per-page", 20, "results per page")
	searchCmd.Flags().String("has-code", "", "filter by code availability (true/false)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	var semantic rank.SemanticSource
	if aiConfigured(cfg.AI) {
		embedder, err := embed.NewOpenAIEmbedder(cfg.AI)
		if err != nil {
			return err
		}
		semantic = embed.NewSemantic(embedder, idx)
	}

	engine, err := rank.NewEngine(s, semantic, cfg.Search)
	if err != nil {
		return err
	}

	req := rank.Request{Query: strings.Join(args, " ")}
	req.Page, _ = cmd.Flags().GetInt("page")
	req.PerPage, _ = cmd.Flags().GetInt("per-page")

	rawFilters := make(map[string]string)
	if hasCode, _ := cmd.Flags().GetString("has-code"); hasCode != "" {
		rawFilters["has_code"] = hasCode
	}
	if req.Filters, err = rank.ParseFilters(rawFilters); err != nil {
		return err
	}

	result, err := engine.Search(context.Background(), req)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.TotalItems == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-5s  %-60s  %s\n", "ID", "Year", "Title", "Authors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, item := range result.Items {
		fmt.Fprintf(os.Stdout, "%-14s  %-5d  %-60s  %s\n",
			item.ID, item.Year, truncate(item.Title, 60), truncate(strings.Join(item.Authors, ", "), 40))
	}
	fmt.Fprintf(os.Stdout, "\nPage %d of %d (%d papers)\n", result.Page, result.TotalPages, result.TotalItems)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
