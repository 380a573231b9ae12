// Command codekb is the CLI front end over the structural
// code-knowledge engine: index a project, query its vector index, or
// serve its five operations over MCP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
