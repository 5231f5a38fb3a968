package extractor

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// OCRClient is the consumer interface for the external document-understanding
// service: submit a byte payload, get back ordered per-page text segments.
type OCRClient interface {
	Process(ctx context.Context, content []byte) ([]string, error)
}

// DocumentUnderstanding extracts text from PDFs and images by delegating to
// an external OCR service. The call is network-bound with no local retry; a
// transient provider failure propagates as a stage failure.
type DocumentUnderstanding struct {
	client OCRClient
}

// NewDocumentUnderstanding creates an OCR-backed extractor.
func NewDocumentUnderstanding(client OCRClient) *DocumentUnderstanding {
	return &DocumentUnderstanding{client: client}
}

// Extract submits the payload for processing and returns one text segment per page.
func (d *DocumentUnderstanding) Extract(ctx context.Context, content []byte) ([]string, error) {
	pages, err := d.client.Process(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("ocr process: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("ocr returned no pages: %w", domain.ErrOCRProviderError)
	}
	return pages, nil
}

// Kind implements domain.Extractor.
func (d *DocumentUnderstanding) Kind() domain.ExtractorKind {
	return domain.ExtractorDocumentUnderstanding
}
