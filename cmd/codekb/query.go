package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastbal/codekb/internal/config"
	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/retriever"
	"github.com/dastbal/codekb/internal/store"
)

var (
	queryLimitFlag  int
	queryReportFlag bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the vector index for relevant chunks",
	Long:  "Embed a natural-language query and return the top-scoring code chunks by cosine similarity, or the formatted context report with --report.",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryLimitFlag, "limit", 5, "maximum number of hits to return")
	queryCmd.Flags().BoolVar(&queryReportFlag, "report", false, "print the formatted context report instead of raw hits")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := args[0]

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
	ctx := context.Background()

	if queryReportFlag {
		report, err := rtr.ContextReport(ctx, text)
		if err != nil {
			return fmt.Errorf("context report: %w", err)
		}
		fmt.Println(report)
		return nil
	}

	hits, err := rtr.Query(ctx, text, queryLimitFlag)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	b, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal hits: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
