package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastbal/codekb/internal/config"
	"github.com/dastbal/codekb/internal/graphquery"
	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/pkg/types"
)

var depsDirectionFlag string

var depsCmd = &cobra.Command{
	Use:   "deps [path]",
	Short: "List the dependency edges for a file",
	Long:  "Return the 1-hop dependency edges for a file path, in the given direction (outbound or inbound).",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	depsCmd.Flags().StringVar(&depsDirectionFlag, "direction", string(types.Outbound), "edge direction to follow (outbound, inbound)")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
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

	gq := graphquery.New(st)

	deps, err := gq.DependenciesOf(context.Background(), path, types.Direction(depsDirectionFlag))
	if err != nil {
		return fmt.Errorf("dependencies of: %w", err)
	}

	b, err := json.MarshalIndent(deps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
