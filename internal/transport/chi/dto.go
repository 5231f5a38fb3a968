package chi

import (
	"time"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Error codes returned in structured error bodies.
const (
	codeInvalidInput         = "invalid_input"
	codeDocumentNotFound     = "document_not_found"
	codeUnsupportedMimeType  = "unsupported_mime_type"
	codeUnsupportedStrategy  = "unsupported_chunking_strategy"
	codeDownloadFailed       = "download_failed"
	codeEmbeddingProviderErr = "embedding_provider_error"
	codeOCRProviderErr       = "ocr_provider_error"
	codeInternalError        = "internal_error"
)

// errorResponse is the structured error body for every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// loadRequest is the JSON body of POST /load/{tenant_id}. Content is
// base64-encoded in JSON; clients with raw bytes use the octet-stream form.
type loadRequest struct {
	URL              string `json:"url"`
	Content          []byte `json:"content"`
	Label            string `json:"label"`
	MimeType         string `json:"mimeType"`
	ChunkingStrategy string `json:"chunking_strategy"`
}

type loadResponse struct {
	DocumentID       string    `json:"documentId"`
	TenantID         string    `json:"tenantId"`
	Label            string    `json:"label"`
	MimeType         string    `json:"mimeType"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	ChunkingStrategy string    `json:"chunkingStrategy"`
}

func loadResponseFromDoc(doc *domain.Document) loadResponse {
	return loadResponse{
		DocumentID:       doc.DocumentID(),
		TenantID:         doc.TenantID(),
		Label:            doc.Label(),
		MimeType:         doc.MIMEType(),
		Status:           "pending",
		CreatedAt:        doc.CreatedAt(),
		UpdatedAt:        doc.CreatedAt(),
		ChunkingStrategy: string(doc.ChunkingStrategy()),
	}
}

type documentRequest struct {
	DocumentID string `json:"documentId"`
}

type chunkItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type splitResponse struct {
	TenantID         string      `json:"tenantId"`
	DocumentID       string      `json:"documentId"`
	Chunks           []chunkItem `json:"chunks"`
	ChunkingStrategy string      `json:"chunkingStrategy"`
}

type encodedChunkItem struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

type encodeResponse struct {
	TenantID       string             `json:"tenantId"`
	DocumentID     string             `json:"documentId"`
	Chunks         []encodedChunkItem `json:"chunks"`
	EmbeddingModel string             `json:"embeddingModel"`
}

type queryRequest struct {
	Text       string `json:"text"`
	TopK       int    `json:"topK"`
	DocumentID string `json:"documentId"`
}

type queryResultItem struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"documentId"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

type queryResponse struct {
	TenantID string            `json:"tenantId"`
	Results  []queryResultItem `json:"results"`
}

type removeResponse struct {
	TenantID   string `json:"tenantId"`
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
