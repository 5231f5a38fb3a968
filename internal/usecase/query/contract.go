package query

import (
	"context"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Searcher runs KNN over the chunk index with TAG pre-filter conditions.
type Searcher interface {
	Search(ctx context.Context, vector []float32, tags map[string]string, k int) ([]domain.ScoredChunk, error)
}
