package extractor

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Text extracts plain text and markdown content. It performs no chunking and
// no layout analysis: the whole payload becomes a single segment.
type Text struct{}

// NewText creates a text extractor.
func NewText() *Text {
	return &Text{}
}

// Extract decodes the payload as UTF-8 text. Any other byte sequence is a
// hard failure.
func (t *Text) Extract(_ context.Context, content []byte) ([]string, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("decode text content: %w", domain.ErrDecodeFailed)
	}
	return []string{string(content)}, nil
}

// Kind implements domain.Extractor.
func (t *Text) Kind() domain.ExtractorKind {
	return domain.ExtractorText
}
