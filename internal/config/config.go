package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the cmd/codekb binary
// needs to wire up the core.
type Config struct {
	ProjectRoot   string
	SourceDir     string
	StoreFileName string
	EmbeddingURL  string
	EmbeddingKey  string
	EmbeddingModel string
	BatchSize     int
}

// Load reads configuration from environment variables, applying
// defaults for every optional field. If a .env file exists in the
// current directory or an ancestor (up to 5 levels, stopping once
// go.mod is found), it is loaded first; variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, statErr := os.Stat(envPath); statErr == nil {
				_ = godotenv.Load(envPath)
				break
			}
			if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	batchSize, err := strconv.Atoi(getEnv("CODEKB_BATCH_SIZE", "10"))
	if err != nil || batchSize <= 0 {
		batchSize = 10
	}

	return &Config{
		ProjectRoot:    getEnv("CODEKB_PROJECT_ROOT", "."),
		SourceDir:      getEnv("CODEKB_SOURCE_DIR", "src"),
		StoreFileName:  getEnv("CODEKB_STORE_FILE", "codekb.db"),
		EmbeddingURL:   getEnv("CODEKB_EMBEDDING_URL", "http://localhost:8081/v1/embeddings"),
		EmbeddingKey:   getEnv("CODEKB_EMBEDDING_API_KEY", ""),
		EmbeddingModel: getEnv("CODEKB_EMBEDDING_MODEL", "text-embedding-3-small"),
		BatchSize:      batchSize,
	}, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
