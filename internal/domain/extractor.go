package domain

import "context"

// Extractor converts raw document bytes into ordered plain-text segments,
// one per source page or unit.
type Extractor interface {
	Extract(ctx context.Context, content []byte) ([]string, error)
	Kind() ExtractorKind
}

// ExtractorKind enumerates the available extraction backends.
type ExtractorKind string

const (
	// ExtractorText decodes UTF-8 text directly.
	ExtractorText ExtractorKind = "text"
	// ExtractorDocumentUnderstanding delegates to an external OCR service.
	ExtractorDocumentUnderstanding ExtractorKind = "document_understanding"
)
