package load

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
	"github.com/kailas-cloud/docpipe/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockFetcher struct {
	content []byte
	err     error
	gotURL  string
}

func (m *mockFetcher) Download(_ context.Context, url string) ([]byte, error) {
	m.gotURL = url
	return m.content, m.err
}

type mockExtractor struct {
	kind  domain.ExtractorKind
	pages []string
	err   error
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte) ([]string, error) {
	m.calls++
	return m.pages, m.err
}

func (m *mockExtractor) Kind() domain.ExtractorKind { return m.kind }

type mockRegistry struct {
	extractors []domain.Extractor
	err        error
}

func (m *mockRegistry) Resolve(_ string) ([]domain.Extractor, error) {
	return m.extractors, m.err
}

type mockDocWriter struct {
	saved *domain.Document
	err   error
}

func (m *mockDocWriter) Save(_ context.Context, doc *domain.Document) error {
	m.saved = doc
	return m.err
}

func newTestService(fetcher *mockFetcher, registry *mockRegistry, docs *mockDocWriter, strict bool) *Service {
	svc := New(fetcher, registry, docs, zap.NewNop(), strict)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

// --- Tests ---

func TestService_LoadInline(t *testing.T) {
	ext := &mockExtractor{kind: domain.ExtractorText, pages: []string{"hello"}}
	docs := &mockDocWriter{}
	svc := newTestService(&mockFetcher{}, &mockRegistry{extractors: []domain.Extractor{ext}}, docs, false)

	doc, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("hello"),
		MimeType: "text/plain",
		Label:    "greeting",
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if doc.TenantID() != "tenant-a" {
		t.Errorf("TenantID = %q", doc.TenantID())
	}
	if doc.DocumentID() == "" {
		t.Error("DocumentID must be generated")
	}
	if doc.Label() != "greeting" {
		t.Errorf("Label = %q", doc.Label())
	}
	if len(doc.Pages()) != 1 || doc.Pages()[0] != "hello" {
		t.Errorf("Pages = %v", doc.Pages())
	}
	if docs.saved == nil {
		t.Error("artifact was not persisted")
	}
}

func TestService_LoadFromURL(t *testing.T) {
	ext := &mockExtractor{kind: domain.ExtractorText, pages: []string{"remote"}}
	fetcher := &mockFetcher{content: []byte("remote")}
	svc := newTestService(fetcher, &mockRegistry{extractors: []domain.Extractor{ext}}, &mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		URL:      "https://example.com/doc.txt",
		MimeType: "text/plain",
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fetcher.gotURL != "https://example.com/doc.txt" {
		t.Errorf("fetched url = %q", fetcher.gotURL)
	}
}

func TestService_LoadDownloadFailed(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("status 500")}
	svc := newTestService(fetcher, &mockRegistry{}, &mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		URL:      "https://example.com/doc.txt",
	})
	if !errors.Is(err, domain.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
}

func TestService_LoadBadURLScheme(t *testing.T) {
	svc := newTestService(&mockFetcher{}, &mockRegistry{}, &mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		URL:      "ftp://example.com/doc.txt",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_LoadMissingInput(t *testing.T) {
	svc := newTestService(&mockFetcher{}, &mockRegistry{}, &mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{TenantID: "tenant-a"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_LoadUnknownStrategy(t *testing.T) {
	svc := newTestService(&mockFetcher{}, &mockRegistry{}, &mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
		Strategy: "mystery",
	})
	if !errors.Is(err, domain.ErrUnsupportedChunkingStrategy) {
		t.Fatalf("expected ErrUnsupportedChunkingStrategy, got %v", err)
	}
}

func TestService_LoadAutoStrategyResolved(t *testing.T) {
	ext := &mockExtractor{kind: domain.ExtractorText, pages: []string{"x"}}
	svc := newTestService(&mockFetcher{}, &mockRegistry{extractors: []domain.Extractor{ext}}, &mockDocWriter{}, false)

	doc, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
		Strategy: "auto",
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.ChunkingStrategy() != domain.StrategyFixed {
		t.Errorf("strategy = %q, want fix", doc.ChunkingStrategy())
	}
}

func TestService_LoadDefaultLabelIsTimestamp(t *testing.T) {
	ext := &mockExtractor{kind: domain.ExtractorText, pages: []string{"x"}}
	svc := newTestService(&mockFetcher{}, &mockRegistry{extractors: []domain.Extractor{ext}}, &mockDocWriter{}, false)

	doc, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Label() != "20250601T120000" {
		t.Errorf("Label = %q, want 20250601T120000", doc.Label())
	}
}

func TestService_LoadFallsThroughCandidates(t *testing.T) {
	failing := &mockExtractor{kind: domain.ExtractorText, err: domain.ErrDecodeFailed}
	succeeding := &mockExtractor{kind: domain.ExtractorDocumentUnderstanding, pages: []string{"page"}}
	svc := newTestService(&mockFetcher{},
		&mockRegistry{extractors: []domain.Extractor{failing, succeeding}},
		&mockDocWriter{}, false)

	doc, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte{0xff, 0xfe},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if failing.calls != 1 || succeeding.calls != 1 {
		t.Errorf("calls = %d, %d", failing.calls, succeeding.calls)
	}
	if doc.Pages()[0] != "page" {
		t.Errorf("Pages = %v", doc.Pages())
	}
}

func TestService_LoadAllCandidatesFail(t *testing.T) {
	first := &mockExtractor{kind: domain.ExtractorText, err: domain.ErrDecodeFailed}
	second := &mockExtractor{kind: domain.ExtractorDocumentUnderstanding, err: domain.ErrOCRProviderError}
	svc := newTestService(&mockFetcher{},
		&mockRegistry{extractors: []domain.Extractor{first, second}},
		&mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
	})
	if err == nil {
		t.Fatal("expected error when all extractors fail")
	}
	// Joined errors keep each candidate's failure visible.
	if !errors.Is(err, domain.ErrDecodeFailed) || !errors.Is(err, domain.ErrOCRProviderError) {
		t.Errorf("joined error lost a candidate failure: %v", err)
	}
}

func TestService_LoadUnsupportedMime(t *testing.T) {
	svc := newTestService(&mockFetcher{},
		&mockRegistry{err: domain.ErrUnsupportedMimeType},
		&mockDocWriter{}, false)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
		MimeType: "application/zip",
	})
	if !errors.Is(err, domain.ErrUnsupportedMimeType) {
		t.Fatalf("expected ErrUnsupportedMimeType, got %v", err)
	}
}

func TestService_LoadStoreFailureIsBestEffort(t *testing.T) {
	ext := &mockExtractor{kind: domain.ExtractorText, pages: []string{"x"}}
	docs := &mockDocWriter{err: errors.New("store down")}
	svc := newTestService(&mockFetcher{}, &mockRegistry{extractors: []domain.Extractor{ext}}, docs, false)

	if _, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
	}); err != nil {
		t.Fatalf("best-effort save must not fail the load: %v", err)
	}
}

func TestService_LoadStoreFailureStrict(t *testing.T) {
	ext := &mockExtractor{kind: domain.ExtractorText, pages: []string{"x"}}
	docs := &mockDocWriter{err: errors.New("store down")}
	svc := newTestService(&mockFetcher{}, &mockRegistry{extractors: []domain.Extractor{ext}}, docs, true)

	_, err := svc.Load(context.Background(), Input{
		TenantID: "tenant-a",
		Content:  []byte("x"),
	})
	if !errors.Is(err, domain.ErrStorageWrite) {
		t.Fatalf("expected ErrStorageWrite in strict mode, got %v", err)
	}
}
