package load

import (
	"context"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Fetcher downloads remote documents.
type Fetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// ExtractorRegistry resolves a declared MIME type to ordered candidate
// extractors.
type ExtractorRegistry interface {
	Resolve(mimeType string) ([]domain.Extractor, error)
}

// DocumentWriter persists document artifacts.
type DocumentWriter interface {
	Save(ctx context.Context, doc *domain.Document) error
}
