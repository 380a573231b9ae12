package indexer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dastbal/codekb/internal/chunker"
	"github.com/dastbal/codekb/internal/embedder"
	"github.com/dastbal/codekb/internal/fileregistry"
	"github.com/dastbal/codekb/internal/hasher"
	"github.com/dastbal/codekb/internal/store"
	"github.com/dastbal/codekb/pkg/types"
)

// defaultBatchSize is the fixed chunk-embedding batch size spec.md
// section 4.3 calls for.
const defaultBatchSize = 10

// defaultSourceDir is the scan root used when Config.SourceDir is
// unset.
const defaultSourceDir = "src"

// Config tunes one IndexProject run. Exposed as fields rather than
// hardcoded constants so callers can adjust batch size without
// forking the core, following the teacher's indexer.Config pattern.
type Config struct {
	SourceDir string
	BatchSize int
}

// Statistics summarizes one IndexProject run.
type Statistics struct {
	FilesIndexed   int
	FilesSkipped   int
	FilesFailed    int
	EdgesPersisted int
	ChunksEmbedded int
	Duration       time.Duration
}

// Indexer coordinates the chunker, file registry, and store into the
// scan -> change-detect -> analyze -> persist-graph -> embed pipeline.
type Indexer struct {
	root     string
	store    store.Store
	registry *fileregistry.Registry
	chunker  *chunker.Chunker
	embedder *embedder.Embedder
	logger   *log.Logger
}

// New returns an Indexer rooted at root. logger defaults to the
// standard logger writing to stderr when nil.
func New(root string, st store.Store, emb *embedder.Embedder, logger *log.Logger) *Indexer {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Indexer{
		root:     root,
		store:    st,
		registry: fileregistry.New(st),
		chunker:  chunker.New(root),
		embedder: emb,
		logger:   logger,
	}
}

// IndexProject idempotently brings the Store into sync with the
// on-disk tree rooted at cfg.SourceDir.
func (idx *Indexer) IndexProject(ctx context.Context, cfg Config) (*Statistics, error) {
	start := time.Now()

	sourceDir := cfg.SourceDir
	if sourceDir == "" {
		sourceDir = defaultSourceDir
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	stats := &Statistics{}

	candidates, err := discoverFiles(idx.root, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	var changed []string
	for _, path := range candidates {
		isChanged, err := idx.registry.IsChanged(ctx, idx.root, path)
		if err != nil {
			idx.logger.Printf("codekb: skip %s: %v", path, err)
			stats.FilesFailed++
			continue
		}
		if isChanged {
			changed = append(changed, path)
		} else {
			stats.FilesSkipped++
		}
	}

	var edgeBuffer []types.Edge
	var chunkBuffer []types.Chunk

	// Pass A: analyze & register.
	for _, path := range changed {
		content, err := os.ReadFile(filepath.Join(idx.root, filepath.FromSlash(path)))
		if err != nil {
			idx.logger.Printf("codekb: read %s: %v", path, err)
			stats.FilesFailed++
			continue
		}

		result, err := idx.chunker.Analyze(ctx, path, content, hasher.Hash(content))
		if err != nil {
			// ParseError: logged, registry row not updated, chunks/edges
			// discarded — the next run retries this file.
			idx.logger.Printf("codekb: parse %s: %v", path, err)
			stats.FilesFailed++
			continue
		}

		if err := idx.registry.Update(ctx, idx.root, path, result.Skeleton); err != nil {
			idx.logger.Printf("codekb: register %s: %v", path, err)
			stats.FilesFailed++
			continue
		}

		// Chunk IDs are not stable across runs, so a re-index of a
		// changed file must drop its previous rows before the new
		// batch is written, or stale chunks accumulate forever.
		if err := idx.store.DeleteChunksByFile(ctx, path); err != nil {
			idx.logger.Printf("codekb: clear old chunks for %s: %v", path, err)
			stats.FilesFailed++
			continue
		}

		edgeBuffer = append(edgeBuffer, result.Edges...)
		chunkBuffer = append(chunkBuffer, result.Chunks...)
		stats.FilesIndexed++
	}

	// Pass B: persist graph, one transaction, insert-or-ignore.
	if err := idx.store.InsertEdges(ctx, edgeBuffer); err != nil {
		return stats, fmt.Errorf("persist edges: %w", err)
	}
	stats.EdgesPersisted = len(edgeBuffer)

	// Pass C: embed & persist chunks in fixed-size batches. A batch
	// failure is logged and the run continues with the next batch.
	for batchStart := 0; batchStart < len(chunkBuffer); batchStart += batchSize {
		batchEnd := batchStart + batchSize
		if batchEnd > len(chunkBuffer) {
			batchEnd = len(chunkBuffer)
		}
		batch := chunkBuffer[batchStart:batchEnd]

		if err := idx.embedAndPersistBatch(ctx, batch); err != nil {
			idx.logger.Printf("codekb: embedding batch [%d:%d]: %v", batchStart, batchEnd, err)
			continue
		}
		stats.ChunksEmbedded += len(batch)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (idx *Indexer) embedAndPersistBatch(ctx context.Context, batch []types.Chunk) error {
	inputs := make([]string, len(batch))
	for i, c := range batch {
		inputs[i] = c.EmbeddingInput()
	}

	vectors, err := idx.embedder.EmbedBatch(ctx, inputs)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(batch))
	}

	for i := range batch {
		batch[i].Vector = vectors[i]
	}

	if err := idx.store.UpsertChunksBatch(ctx, batch); err != nil {
		return fmt.Errorf("persist chunk batch: %w", err)
	}
	return nil
}
