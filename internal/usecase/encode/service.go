package encode

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Output carries the encoded chunks and the model that produced the vectors.
type Output struct {
	Chunks []domain.Chunk
	Model  string
}

// Service attaches embedding vectors to a document's chunk records.
type Service struct {
	records  RecordStore
	embedder domain.BatchEmbedder
	logger   *zap.Logger
}

// New creates an encode service.
func New(records RecordStore, embedder domain.BatchEmbedder, logger *zap.Logger) *Service {
	return &Service{records: records, embedder: embedder, logger: logger}
}

// Encode finds the document's chunk records, embeds all their texts in one
// provider call, and writes each record back with its vector. A document with
// no chunks is a successful no-op, not an error.
func (s *Service) Encode(ctx context.Context, tenantID, documentID string) (Output, error) {
	if tenantID == "" || documentID == "" {
		return Output{}, fmt.Errorf("tenant id and document id are required: %w", domain.ErrInvalidInput)
	}

	chunks, err := s.records.Find(ctx, map[string]string{
		"tenantId":   tenantID,
		"documentId": documentID,
	})
	if err != nil {
		return Output{}, fmt.Errorf("find chunks for %s: %w", documentID, err)
	}
	if len(chunks) == 0 {
		return Output{Model: s.embedder.Model()}, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text()
	}

	result, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return Output{}, fmt.Errorf("embed %d chunks of %s: %w", len(chunks), documentID, err)
	}
	if len(result.Embeddings) != len(chunks) {
		return Output{}, fmt.Errorf("got %d vectors for %d chunks: %w",
			len(result.Embeddings), len(chunks), domain.ErrEmbeddingProviderError)
	}

	encoded := make([]domain.Chunk, len(chunks))
	for i := range chunks {
		encoded[i] = chunks[i].WithVector(result.Embeddings[i])
	}

	if err := s.records.Upsert(ctx, encoded); err != nil {
		return Output{}, fmt.Errorf("store vectors for %s: %w", documentID, err)
	}

	s.logger.Debug("document encoded",
		zap.String("tenant_id", tenantID),
		zap.String("document_id", documentID),
		zap.Int("chunks", len(encoded)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return Output{Chunks: encoded, Model: s.embedder.Model()}, nil
}
