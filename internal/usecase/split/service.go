package split

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
	"github.com/kailas-cloud/docpipe/internal/metrics"
)

// Output carries the split result: the source artifact plus the persisted
// chunk records in document order.
type Output struct {
	Document domain.Document
	Chunks   []domain.Chunk
}

// Service splits a loaded document into bounded chunk records.
type Service struct {
	docs    DocumentReader
	records RecordWriter
	logger  *zap.Logger
}

// New creates a split service.
func New(docs DocumentReader, records RecordWriter, logger *zap.Logger) *Service {
	return &Service{docs: docs, records: records, logger: logger}
}

// Split loads the document artifact, splits its text per the strategy chosen
// at load time, and upserts one record per chunk. Chunk ids are derived from
// the document id and position, so re-splitting overwrites in place.
func (s *Service) Split(ctx context.Context, tenantID, documentID string) (Output, error) {
	if tenantID == "" || documentID == "" {
		return Output{}, fmt.Errorf("tenant id and document id are required: %w", domain.ErrInvalidInput)
	}

	doc, err := s.docs.Load(ctx, tenantID, documentID)
	if err != nil {
		return Output{}, fmt.Errorf("load document %s: %w", documentID, err)
	}

	text := strings.Join(doc.Pages(), "\n")

	strategy := doc.ChunkingStrategy().Resolve()

	var texts []string
	switch strategy {
	case domain.StrategyFixed:
		texts, err = splitFixed(text)
	case domain.StrategySemantic:
		texts, err = splitSemantic(text)
	default:
		return Output{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedChunkingStrategy, strategy)
	}
	if err != nil {
		return Output{}, fmt.Errorf("split document %s: %w", documentID, err)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.NewChunk(domain.ChunkID(documentID, i), tenantID, documentID, t)
	}

	if err := s.records.Upsert(ctx, chunks); err != nil {
		return Output{}, fmt.Errorf("store chunks for %s: %w", documentID, err)
	}

	metrics.ChunksSplitTotal.WithLabelValues(string(strategy)).Add(float64(len(chunks)))
	s.logger.Debug("document split",
		zap.String("tenant_id", tenantID),
		zap.String("document_id", documentID),
		zap.String("strategy", string(strategy)),
		zap.Int("chunks", len(chunks)),
	)

	return Output{Document: doc, Chunks: chunks}, nil
}
