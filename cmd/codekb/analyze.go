package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastbal/codekb/internal/config"
	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/retriever"
	"github.com/dastbal/codekb/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Print the stored skeleton for a single file",
	Long:  "Return the stored skeleton for a single file path, for targeted structural introspection.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(cfg.ProjectRoot, cfg.StoreFileName)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	emb, err := embedder.New(embedder.Config{
		BaseURL: cfg.EmbeddingURL,
		Model:   cfg.EmbeddingModel,
		APIKey:  cfg.EmbeddingKey,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	defer func() { _ = emb.Close() }()

	rtr := retriever.New(st, emb)

	text, err := rtr.AnalyzeStructure(context.Background(), path)
	if err != nil {
		return fmt.Errorf("analyze structure: %w", err)
	}

	fmt.Println(text)
	return nil
}
