package split

import (
	"context"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// DocumentReader reads persisted document artifacts.
type DocumentReader interface {
	Load(ctx context.Context, tenantID, documentID string) (domain.Document, error)
}

// RecordWriter persists chunk records.
type RecordWriter interface {
	Upsert(ctx context.Context, chunks []domain.Chunk) error
}
