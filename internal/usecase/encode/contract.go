package encode

import (
	"context"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// RecordStore reads and writes chunk records.
type RecordStore interface {
	Find(ctx context.Context, filter map[string]string) ([]domain.Chunk, error)
	Upsert(ctx context.Context, chunks []domain.Chunk) error
}
