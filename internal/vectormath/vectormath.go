package vectormath

import (
	"fmt"
	"math"

	"github.com/dastbal/codekb/pkg/types"
)

// CosineSimilarity returns the cosine similarity of a and b, a value in
// [-1, 1]. Zero-norm vectors score 0 rather than dividing by zero.
// Vectors of unequal length are a programmer error: per spec.md section
// 4.6 this must raise, surfaced here as a wrapped types.ErrDimensionMismatch.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", types.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
