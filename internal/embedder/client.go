package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Embed returns the vector for a single piece of text, used by the
// retriever to embed a query string.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input text, in the same order,
// per spec section 4.5: "takes a sequence of input strings and
// returns a sequence of equal-dimensional vectors." Cache hits are
// served without a backend call, and identical texts within one batch
// share a single backend call; misses are issued concurrently with
// respect to wall clock (spec section 5) but associated back to their
// position by index, never by arrival order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrEmptyText)
	}

	results := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	missPos := make(map[string]int)
	var dupIdx, dupPos []int

	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyText, i)
		}
		hash := contentHash(text)
		if cached, ok := e.cache.Get(hash); ok {
			vec := make([]float32, len(cached))
			copy(vec, cached)
			results[i] = vec
			continue
		}
		if j, ok := missPos[hash]; ok {
			dupIdx = append(dupIdx, i)
			dupPos = append(dupPos, j)
			continue
		}
		missPos[hash] = len(missTexts)
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	fetched, err := e.callBackend(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d, wanted %d", ErrCountMismatch, len(fetched), len(missTexts))
	}

	for j, idx := range missIdx {
		results[idx] = fetched[j]
		e.cache.Add(contentHash(missTexts[j]), fetched[j])
	}
	for k, idx := range dupIdx {
		results[idx] = fetched[dupPos[k]]
	}

	return results, nil
}

// callBackend issues one HTTP call per miss, concurrently, preserving
// index-position ordering regardless of arrival order — the one
// concurrency seam spec section 5 permits inside an otherwise
// cooperative, single-threaded pipeline.
func (e *Embedder) callBackend(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			vec, err := e.embedOne(gctx, text)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendFailed, err)
	}

	return vectors, nil
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// embedOne performs a single-text embedding call. Batches of size 1
// still round-trip through the same request shape as larger batches —
// the backend is the one that defines true batching; the core's own
// batching is the fixed-size partitioning the indexer performs before
// ever reaching the embedder.
func (e *Embedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Input: []string{text}, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding backend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding backend returned %d: %s", resp.StatusCode, string(errBody))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding backend returned no data")
	}

	return parsed.Data[0].Embedding, nil
}
