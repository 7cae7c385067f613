// Package search ranks corpus questions by semantic similarity to a query.
package search

import (
	"context"
	"math"
)

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CosineSimilarity converts a pgvector cosine distance (0..2) to [0,1].
func CosineSimilarity(distance float64) float64 {
	return clamp01(1 - distance)
}

// L2Similarity converts a euclidean distance to (0,1].
func L2Similarity(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return clamp01(math.Exp(-distance))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
