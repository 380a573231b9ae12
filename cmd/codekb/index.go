package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dastbal/codekb/internal/config"
	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/indexer"
	"github.com/dastbal/codekb/internal/store"
)

var indexSourceDirFlag string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the project's source directory",
	Long:  "Scan the project's source directory, detect changed files, and bring the structural index up to date.",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexSourceDirFlag, "source-dir", "", "source directory relative to the project root (overrides CODEKB_SOURCE_DIR)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sourceDir := cfg.SourceDir
	if indexSourceDirFlag != "" {
		sourceDir = indexSourceDirFlag
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

	logger := log.New(os.Stderr, "codekb: ", log.LstdFlags)
	idx := indexer.New(cfg.ProjectRoot, st, emb, logger)

	ctx := context.Background()
	stats, err := idx.IndexProject(ctx, indexer.Config{SourceDir: sourceDir, BatchSize: cfg.BatchSize})
	if err != nil {
		return fmt.Errorf("index project: %w", err)
	}

	fmt.Printf("files indexed:   %d\n", stats.FilesIndexed)
	fmt.Printf("files skipped:   %d\n", stats.FilesSkipped)
	fmt.Printf("files failed:    %d\n", stats.FilesFailed)
	fmt.Printf("edges persisted: %d\n", stats.EdgesPersisted)
	fmt.Printf("chunks embedded: %d\n", stats.ChunksEmbedded)
	fmt.Printf("duration:        %s\n", stats.Duration)

	return nil
}
