package main

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "codekb",
	Short: "codekb - structural code-knowledge engine",
	Long: `codekb indexes a class-and-decorator-based server project into a
per-file skeleton store, a dependency graph, and a vector index, and
exposes the result through a CLI and an MCP server.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate("codekb version {{.Version}}\n")
}
