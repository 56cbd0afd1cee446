package embedding

import (
	"context"
	"math"
)

type EmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}

type EmbeddingResponse [][]float32

// Client produces one fixed-length vector per input text, in input order.
type Client interface {
	GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|). A zero-magnitude or
// mismatched vector yields -1, below any real cosine, so broken vectors
// rank last instead of producing NaN.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return -1
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
