package embedder

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Sentinel errors, matching the EmbeddingError kind in spec section 7:
// a backend call fails or returns a count that doesn't match the
// request.
var (
	ErrEmptyText     = errors.New("embedding text cannot be empty")
	ErrBackendFailed = errors.New("embedding backend failed")
	ErrCountMismatch = errors.New("embedding backend returned a different count than requested")
)

const defaultCacheSize = 10000

// Config configures an Embedder. BaseURL and Model point at the
// external embedding backend; the core imposes no opinion on which
// provider sits behind it.
type Config struct {
	BaseURL    string
	Model      string
	APIKey     string
	Timeout    time.Duration
	CacheSize  int
}

// Embedder calls the configured HTTP embedding backend, batching
// requests and caching results by content hash.
type Embedder struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	cache      *lru.Cache[string, []float32]
}

// New builds an Embedder from cfg, filling in defaults for the HTTP
// timeout and cache size when unset.
func New(cfg Config) (*Embedder, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, []float32](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
	}, nil
}

// Close releases the embedder's idle HTTP connections.
func (e *Embedder) Close() error {
	e.httpClient.CloseIdleConnections()
	return nil
}

// contentHash computes the cache key for a piece of embedding input
// text. Unlike internal/hasher (change detection on file content),
// this is a cryptographic hash reused directly from the teacher's
// embedder.ComputeHash, since cache-key collision here would silently
// return the wrong vector.
func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
