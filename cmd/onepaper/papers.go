// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JosephJoshua/onepaper/internal/store"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Inspect papers in the library",
}

var papersShowCmd = &cobra.Command{
	Use:   "show <arxiv-id>",
	Short: "Show a paper's full record",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

var papersCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of papers in the library",
	RunE:  runPapersCount,
}

func init() {
	papersShowCmd.Flags().Bool("json", false, "output the paper as JSON")
	papersCmd.AddCommand(papersShowCmd, papersCountCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer s.Close()

	paper, err := s.GetPaper(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(paper)
	}

	fmt.Printf("%s (%d)\n", paper.Title, paper.Year)
	fmt.Printf("arXiv: %s\n", paper.ID)
	if len(paper.Authors) > 0 {
		fmt.Printf("Authors: %s\n", strings.Join(paper.Authors, ", "))
	}
	if paper.Contribution != "" {
		fmt.Printf("\nContribution: %s\n", paper.Contribution)
	}
	sections := []struct {
		label  string
		values []string
	}{
		{"Tasks", paper.Tasks},
		{"Methods", paper.Methods},
		{"Datasets", paper.Datasets},
		{"Code", paper.CodeLinks},
	}
	for _, sec := range sections {
		if len(sec.values) > 0 {
			fmt.Printf("%s: %s\n", sec.label, strings.Join(sec.values, ", "))
		}
	}
	fmt.Printf("\n%s\n", paper.Abstract)
	return nil
}

func runPapersCount(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.CountPapers(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}
