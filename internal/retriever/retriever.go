package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/fileregistry"
	"github.com/dastbal/codekb/internal/graphquery"
	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/internal/vectormath"
	"github.com/dastbal/codekb/pkg/types"
)

// defaultQueryLimit is the limit spec.md section 4.7 gives Query when
// the caller doesn't specify one.
const defaultQueryLimit = 5

// contextReportLimit is the fixed hit count contextReport requests
// internally, per spec.md section 4.7.
const contextReportLimit = 4

// maxImportsShown is the number of outbound imports shown before
// the report collapses the remainder into "...and N more".
const maxImportsShown = 5

// Retriever answers Query and ContextReport over a Store, embedding
// queries through an Embedder and enriching hits with graph and
// skeleton context.
type Retriever struct {
	store    store.Store
	embedder *embedder.Embedder
	graph    *graphquery.GraphQuery
	registry *fileregistry.Registry
}

// New returns a Retriever backed by st, using emb to embed queries.
func New(st store.Store, emb *embedder.Embedder) *Retriever {
	return &Retriever{
		store:    st,
		embedder: emb,
		graph:    graphquery.New(st),
		registry: fileregistry.New(st),
	}
}

// Query embeds text, scores every stored chunk by cosine similarity,
// and returns the top limit hits (ties broken by insertion order). A
// limit of 0 uses the default of 5.
func (r *Retriever) Query(ctx context.Context, text string, limit int) ([]types.SearchHit, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	queryVector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := r.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	hits := make([]types.SearchHit, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			continue
		}
		score, err := vectormath.CosineSimilarity(queryVector, c.Vector)
		if err != nil {
			return nil, fmt.Errorf("score chunk %s: %w", c.ID, err)
		}
		hits = append(hits, types.SearchHit{Score: score, Chunk: c})
	}

	// Stable sort preserves insertion (load) order among ties, per
	// spec.md section 4.7.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
