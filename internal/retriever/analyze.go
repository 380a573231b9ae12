package retriever

import (
	"context"
	"fmt"
)

// AnalyzeStructure returns a "skeleton for <path>" string plus a tip
// line, for targeted structural introspection without a full query.
// A missing skeleton (a path never indexed, or a registry row stored
// without one) is a NotFound condition per spec.md section 7: it is
// reported in the returned text, not as an error. Atomic files have
// the stored "full" marker, which is returned like any other skeleton.
func (r *Retriever) AnalyzeStructure(ctx context.Context, path string) (string, error) {
	skeleton, err := r.registry.Skeleton(ctx, path)
	if err != nil {
		return "", fmt.Errorf("analyze structure %s: %w", path, err)
	}

	if skeleton == nil {
		return fmt.Sprintf(
			"skeleton for %s: no skeleton on record; the file is available in full.\n"+
				"💡 Tip: run read_file(%q) to see the full source.\n",
			path, path,
		), nil
	}

	return fmt.Sprintf(
		"skeleton for %s:\n%s\n\n💡 Tip: run read_file(%q) to see the full source.\n",
		path, skeleton.String(), path,
	), nil
}
