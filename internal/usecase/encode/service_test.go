package encode

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// --- Mocks ---

type mockRecordStore struct {
	findResult []domain.Chunk
	findErr    error
	gotFilter  map[string]string
	upserted   []domain.Chunk
	upsertErr  error
}

func (m *mockRecordStore) Find(_ context.Context, filter map[string]string) ([]domain.Chunk, error) {
	m.gotFilter = filter
	return m.findResult, m.findErr
}

func (m *mockRecordStore) Upsert(_ context.Context, chunks []domain.Chunk) error {
	m.upserted = chunks
	return m.upsertErr
}

type mockEmbedder struct {
	result   domain.BatchEmbeddingResult
	err      error
	gotTexts []string
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.gotTexts = texts
	return m.result, m.err
}

func (m *mockEmbedder) Model() string { return "test-model" }

func testChunks(t *testing.T, n int) []domain.Chunk {
	t.Helper()
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.NewChunk(
			domain.ChunkID("doc-1", i), "tenant-a", "doc-1",
			"text "+string(rune('a'+i)),
		)
	}
	return chunks
}

// --- Tests ---

func TestService_Encode(t *testing.T) {
	records := &mockRecordStore{findResult: testChunks(t, 2)}
	embedder := &mockEmbedder{result: domain.BatchEmbeddingResult{
		Embeddings:  [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		TotalTokens: 12,
	}}
	svc := New(records, embedder, zap.NewNop())

	out, err := svc.Encode(context.Background(), "tenant-a", "doc-1")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if records.gotFilter["tenantId"] != "tenant-a" || records.gotFilter["documentId"] != "doc-1" {
		t.Errorf("filter = %v", records.gotFilter)
	}
	if len(embedder.gotTexts) != 2 {
		t.Fatalf("embedded %d texts", len(embedder.gotTexts))
	}
	if out.Model != "test-model" {
		t.Errorf("model = %q", out.Model)
	}
	if len(out.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(out.Chunks))
	}
	// Vectors pair positionally with the input chunks.
	if out.Chunks[0].Vector()[0] != 0.1 || out.Chunks[1].Vector()[0] != 0.3 {
		t.Errorf("vectors = %v, %v", out.Chunks[0].Vector(), out.Chunks[1].Vector())
	}
	if len(records.upserted) != 2 {
		t.Errorf("upserted %d chunks", len(records.upserted))
	}
	if records.upserted[0].Vector() == nil {
		t.Error("persisted chunk lost its vector")
	}
}

func TestService_EncodeNoChunksIsSuccess(t *testing.T) {
	records := &mockRecordStore{}
	embedder := &mockEmbedder{}
	svc := New(records, embedder, zap.NewNop())

	out, err := svc.Encode(context.Background(), "tenant-a", "doc-1")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(out.Chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(out.Chunks))
	}
	if out.Model != "test-model" {
		t.Errorf("model = %q", out.Model)
	}
	if embedder.gotTexts != nil {
		t.Error("embedder must not be called for zero chunks")
	}
	if records.upserted != nil {
		t.Error("store must not be written for zero chunks")
	}
}

func TestService_EncodeEmbedderFailure(t *testing.T) {
	records := &mockRecordStore{findResult: testChunks(t, 1)}
	embedder := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := New(records, embedder, zap.NewNop())

	_, err := svc.Encode(context.Background(), "tenant-a", "doc-1")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if records.upserted != nil {
		t.Error("store must not be written when embedding fails")
	}
}

func TestService_EncodeVectorCountMismatch(t *testing.T) {
	records := &mockRecordStore{findResult: testChunks(t, 2)}
	embedder := &mockEmbedder{result: domain.BatchEmbeddingResult{
		Embeddings: [][]float32{{0.1}},
	}}
	svc := New(records, embedder, zap.NewNop())

	_, err := svc.Encode(context.Background(), "tenant-a", "doc-1")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestService_EncodeMissingIDs(t *testing.T) {
	svc := New(&mockRecordStore{}, &mockEmbedder{}, zap.NewNop())

	_, err := svc.Encode(context.Background(), "tenant-a", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_EncodeFindFailure(t *testing.T) {
	records := &mockRecordStore{findErr: errors.New("store down")}
	svc := New(records, &mockEmbedder{}, zap.NewNop())

	if _, err := svc.Encode(context.Background(), "tenant-a", "doc-1"); err == nil {
		t.Fatal("expected error when Find fails")
	}
}
