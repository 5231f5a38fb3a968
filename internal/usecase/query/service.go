package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Input is one retrieval query.
type Input struct {
	TenantID   string
	Text       string
	TopK       int
	DocumentID string
}

// Config bounds the requested result count.
type Config struct {
	DefaultTopK int
	MaxTopK     int
}

// Service retrieves the chunks most similar to a query text.
type Service struct {
	searcher Searcher
	embedder domain.BatchEmbedder
	cfg      Config
	logger   *zap.Logger
}

// New creates a query service.
func New(searcher Searcher, embedder domain.BatchEmbedder, cfg Config, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, embedder: embedder, cfg: cfg, logger: logger}
}

// Query embeds the text and runs KNN over the chunk index. Results never
// cross the tenant boundary: the tenant TAG filter is always applied.
func (s *Service) Query(ctx context.Context, in Input) ([]domain.ScoredChunk, error) {
	if in.TenantID == "" {
		return nil, fmt.Errorf("tenant id is required: %w", domain.ErrInvalidInput)
	}
	if in.Text == "" {
		return nil, fmt.Errorf("query text is required: %w", domain.ErrInvalidInput)
	}

	topK := in.TopK
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}
	if topK > s.cfg.MaxTopK {
		topK = s.cfg.MaxTopK
	}

	result, err := s.embedder.BatchEmbed(ctx, []string{in.Text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(result.Embeddings) != 1 {
		return nil, fmt.Errorf("got %d vectors for query: %w", len(result.Embeddings), domain.ErrEmbeddingProviderError)
	}

	tags := map[string]string{"tenantId": in.TenantID}
	if in.DocumentID != "" {
		tags["documentId"] = in.DocumentID
	}

	hits, err := s.searcher.Search(ctx, result.Embeddings[0], tags, topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	s.logger.Debug("query executed",
		zap.String("tenant_id", in.TenantID),
		zap.Int("top_k", topK),
		zap.Int("hits", len(hits)),
	)

	return hits, nil
}
