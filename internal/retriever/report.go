package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dastbal/codekb/pkg/types"
)

const reportDivider = "================================================================="

// fileGroup is one file's worth of hits from a single Query call,
// used only to build the context report.
type fileGroup struct {
	path      string
	relevance float64
	hits      []types.SearchHit
}

// ContextReport performs Query(text, 4), groups the hits by file, and
// renders the deterministic, line-matchable layout spec.md section 6
// defines: descending relevance, the first five outbound imports with
// the remainder summarized, the stored skeleton, and a code snippet
// per hit in that file.
func (r *Retriever) ContextReport(ctx context.Context, text string) (string, error) {
	hits, err := r.Query(ctx, text, contextReportLimit)
	if err != nil {
		return "", fmt.Errorf("context report: %w", err)
	}

	groups := groupByFile(hits)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n", text)
	fmt.Fprintf(&b, "Found %d relevant files.\n", len(groups))

	for _, g := range groups {
		deps, err := r.graph.DependenciesOf(ctx, g.path, types.Outbound)
		if err != nil {
			return "", fmt.Errorf("context report: %w", err)
		}
		skeleton, err := r.registry.Skeleton(ctx, g.path)
		if err != nil {
			return "", fmt.Errorf("context report: %w", err)
		}

		b.WriteString(reportDivider + "\n")
		fmt.Fprintf(&b, "📂 **FILE:** %s\n", g.path)
		fmt.Fprintf(&b, "📊 **RELEVANCE:** %.1f%%\n", g.relevance*100)
		b.WriteString("🔗 **DEPENDENCIES (Imports):**\n")
		writeImports(&b, deps)
		b.WriteString("🏗️ **FILE SKELETON (MAP):**\n")
		b.WriteString(skeleton.String())
		b.WriteString("\n\n")
		b.WriteString("📝 **CODE SNIPPETS:**\n")
		for _, hit := range g.hits {
			label := hit.Chunk.Metadata.MethodName
			if label == "" {
				label = "Class Structure"
			}
			fmt.Fprintf(&b, "   --- [%s] ---\n", label)
			b.WriteString(hit.Chunk.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "💡 **AGENT HINT:** To edit this file or see full imports, run: read_file(%q)\n", g.path)
		b.WriteString(reportDivider + "\n")
	}

	return b.String(), nil
}

// groupByFile groups hits by file path and orders the groups by
// descending relevance (the highest-scoring hit within the file),
// ties broken by the order their file first appeared in hits.
func groupByFile(hits []types.SearchHit) []fileGroup {
	index := make(map[string]int)
	var groups []fileGroup

	for _, hit := range hits {
		path := hit.Chunk.FilePath
		if i, ok := index[path]; ok {
			groups[i].hits = append(groups[i].hits, hit)
			if hit.Score > groups[i].relevance {
				groups[i].relevance = hit.Score
			}
			continue
		}
		index[path] = len(groups)
		groups = append(groups, fileGroup{path: path, relevance: hit.Score, hits: []types.SearchHit{hit}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].relevance > groups[j].relevance
	})
	return groups
}

// writeImports renders up to the first five outbound import targets,
// summarizing any remainder as "(...and N more)".
func writeImports(b *strings.Builder, deps []types.DependencyRef) {
	shown := deps
	if len(shown) > maxImportsShown {
		shown = shown[:maxImportsShown]
	}
	for _, d := range shown {
		fmt.Fprintf(b, "   - %s\n", d.Other)
	}
	if remaining := len(deps) - len(shown); remaining > 0 {
		fmt.Fprintf(b, "   - (…and %d more)\n", remaining)
	}
}
