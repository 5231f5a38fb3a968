package load

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
	"github.com/kailas-cloud/docpipe/internal/metrics"
)

// Input is one load request. Exactly one of URL and Content must be set.
type Input struct {
	TenantID string
	URL      string
	Content  []byte
	Label    string
	MimeType string
	Strategy string
}

// Service turns a raw document into a persisted text artifact.
type Service struct {
	fetcher      Fetcher
	registry     ExtractorRegistry
	docs         DocumentWriter
	logger       *zap.Logger
	strictWrites bool
	now          func() time.Time
}

// New creates a load service.
func New(
	fetcher Fetcher, registry ExtractorRegistry, docs DocumentWriter,
	logger *zap.Logger, strictWrites bool,
) *Service {
	return &Service{
		fetcher:      fetcher,
		registry:     registry,
		docs:         docs,
		logger:       logger,
		strictWrites: strictWrites,
		now:          time.Now,
	}
}

// Load resolves the input to raw bytes, extracts text via the first
// succeeding candidate extractor, and persists the document artifact.
// The artifact write is best effort unless strict writes are on: a loaded
// document is still usable for splitting within the same store lifetime
// semantics the caller expects.
func (s *Service) Load(ctx context.Context, in Input) (domain.Document, error) {
	if in.TenantID == "" {
		return domain.Document{}, fmt.Errorf("tenant id is required: %w", domain.ErrInvalidInput)
	}
	if in.URL == "" && len(in.Content) == 0 {
		return domain.Document{}, fmt.Errorf("either url or content is required: %w", domain.ErrInvalidInput)
	}

	strategy, err := domain.ParseStrategy(in.Strategy)
	if err != nil {
		return domain.Document{}, err
	}
	// auto resolves here so the persisted artifact always names a concrete
	// strategy and re-splits stay stable.
	strategy = strategy.Resolve()

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = "auto"
	}

	content, err := s.resolveContent(ctx, in)
	if err != nil {
		return domain.Document{}, err
	}

	pages, err := s.extract(ctx, mimeType, content)
	if err != nil {
		return domain.Document{}, err
	}

	createdAt := s.now().UTC()

	label := in.Label
	if label == "" {
		label = createdAt.Format("20060102T150405")
	}

	doc, err := domain.NewDocument(
		in.TenantID, domain.NewDocumentID(), label, mimeType,
		pages, createdAt, strategy,
	)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.docs.Save(ctx, &doc); err != nil {
		if s.strictWrites {
			return domain.Document{}, fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
		}
		s.logger.Warn("document artifact write failed",
			zap.String("tenant_id", doc.TenantID()),
			zap.String("document_id", doc.DocumentID()),
			zap.Error(err),
		)
	}

	return doc, nil
}

// resolveContent returns inline bytes when present, otherwise downloads the URL.
func (s *Service) resolveContent(ctx context.Context, in Input) ([]byte, error) {
	if len(in.Content) > 0 {
		return in.Content, nil
	}

	if !strings.HasPrefix(in.URL, "http://") && !strings.HasPrefix(in.URL, "https://") {
		return nil, fmt.Errorf("unsupported url scheme in %q: %w", in.URL, domain.ErrInvalidInput)
	}

	content, err := s.fetcher.Download(ctx, in.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return content, nil
}

// extract tries candidate extractors in registry order; the first success
// wins. Every failed candidate is logged, and if all fail the joined errors
// propagate so the caller sees what each backend said.
func (s *Service) extract(ctx context.Context, mimeType string, content []byte) ([]string, error) {
	candidates, err := s.registry.Resolve(mimeType)
	if err != nil {
		return nil, err
	}

	var failures []error
	for _, ext := range candidates {
		pages, err := ext.Extract(ctx, content)
		if err != nil {
			metrics.DocumentsLoadedTotal.WithLabelValues(string(ext.Kind()), "error").Inc()
			s.logger.Warn("extractor failed",
				zap.String("extractor", string(ext.Kind())),
				zap.String("mime_type", mimeType),
				zap.Error(err),
			)
			failures = append(failures, fmt.Errorf("%s: %w", ext.Kind(), err))
			continue
		}
		metrics.DocumentsLoadedTotal.WithLabelValues(string(ext.Kind()), "success").Inc()
		return pages, nil
	}

	return nil, fmt.Errorf("all extractors failed for %q: %w", mimeType, errors.Join(failures...))
}
