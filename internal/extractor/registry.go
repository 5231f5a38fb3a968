package extractor

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// mimeRule maps a MIME type fragment to an ordered set of extractor kinds.
// Matching is deliberately permissive (substring over the declared type) to
// tolerate loosely-specified client MIME strings like "txt" or
// "text/markdown; charset=utf-8".
type mimeRule struct {
	fragment string
	kinds    []domain.ExtractorKind
}

// rules are evaluated in order; all matching rules contribute candidates.
var rules = []mimeRule{
	{fragment: "plain", kinds: []domain.ExtractorKind{domain.ExtractorText}},
	{fragment: "markdown", kinds: []domain.ExtractorKind{domain.ExtractorText}},
	{fragment: "txt", kinds: []domain.ExtractorKind{domain.ExtractorText}},
	{fragment: "pdf", kinds: []domain.ExtractorKind{domain.ExtractorDocumentUnderstanding}},
	{fragment: "png", kinds: []domain.ExtractorKind{domain.ExtractorDocumentUnderstanding}},
	{fragment: "octet-stream", kinds: []domain.ExtractorKind{domain.ExtractorDocumentUnderstanding}},
	// Unspecified type: try cheap text decode first, fall back to OCR.
	{fragment: "auto", kinds: []domain.ExtractorKind{
		domain.ExtractorText, domain.ExtractorDocumentUnderstanding,
	}},
}

// Registry resolves a declared MIME type to an ordered list of candidate
// extractors.
type Registry struct {
	byKind map[domain.ExtractorKind]domain.Extractor
}

// NewRegistry creates a registry over the given extractors.
func NewRegistry(extractors ...domain.Extractor) *Registry {
	byKind := make(map[domain.ExtractorKind]domain.Extractor, len(extractors))
	for _, e := range extractors {
		byKind[e.Kind()] = e
	}
	return &Registry{byKind: byKind}
}

// Resolve returns candidate extractors for the declared MIME type in rule
// order, deduplicated. No matching rule is a named error, not a silent
// fallthrough.
func (r *Registry) Resolve(mimeType string) ([]domain.Extractor, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	var candidates []domain.Extractor
	seen := make(map[domain.ExtractorKind]bool)
	for _, rule := range rules {
		if !strings.Contains(mt, rule.fragment) {
			continue
		}
		for _, kind := range rule.kinds {
			if seen[kind] {
				continue
			}
			ext, ok := r.byKind[kind]
			if !ok {
				continue
			}
			seen[kind] = true
			candidates = append(candidates, ext)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMimeType, mimeType)
	}
	return candidates, nil
}
