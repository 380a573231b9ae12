package graphquery

import (
	"context"
	"fmt"

	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/pkg/types"
)

// GraphQuery answers dependency-edge lookups over a Store.
type GraphQuery struct {
	store store.Store
}

// New returns a GraphQuery backed by s.
func New(s store.Store) *GraphQuery {
	return &GraphQuery{store: s}
}

// DependenciesOf returns the 1-hop dependency refs for path in the
// given direction. Path lookup tolerates both forward-slash-normalized
// and caller-supplied forms, per spec section 4.9.
func (g *GraphQuery) DependenciesOf(ctx context.Context, path string, direction types.Direction) ([]types.DependencyRef, error) {
	refs, err := g.store.EdgesByDirection(ctx, path, direction)
	if err != nil {
		return nil, fmt.Errorf("dependencies of %s: %w", path, err)
	}
	return refs, nil
}
