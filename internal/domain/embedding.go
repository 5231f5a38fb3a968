package domain

import "context"

// BatchEmbedder vectorizes multiple texts in a single provider call. The
// provider is contracted to preserve input order, so callers may pair vectors
// with inputs positionally.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
	Model() string
}

// BatchEmbeddingResult carries the vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// HealthChecker verifies an external provider's availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
