package remove

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Service removes a document artifact together with its chunk records.
type Service struct {
	docs    DocumentRemover
	records RecordRemover
	logger  *zap.Logger
}

// New creates a remove service.
func New(docs DocumentRemover, records RecordRemover, logger *zap.Logger) *Service {
	return &Service{docs: docs, records: records, logger: logger}
}

// Remove deletes the artifact and every chunk record derived from it. The
// artifact must exist; a document that was never split has zero chunk
// records and that is fine.
func (s *Service) Remove(ctx context.Context, tenantID, documentID string) error {
	if tenantID == "" || documentID == "" {
		return fmt.Errorf("tenant id and document id are required: %w", domain.ErrInvalidInput)
	}

	if err := s.docs.Delete(ctx, tenantID, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}

	deleted, err := s.records.DeleteByDocument(ctx, tenantID, documentID)
	if err != nil {
		return fmt.Errorf("delete chunks of %s: %w", documentID, err)
	}

	s.logger.Debug("document removed",
		zap.String("tenant_id", tenantID),
		zap.String("document_id", documentID),
		zap.Int("chunks_deleted", deleted),
	)

	return nil
}
