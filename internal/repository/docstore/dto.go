package docstore

import (
	"time"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// documentDTO is the JSON artifact layout persisted per document.
type documentDTO struct {
	TenantID         string   `json:"tenant_id"`
	DocID            string   `json:"doc_id"`
	Label            string   `json:"label"`
	MimeType         string   `json:"mime_type"`
	PageContents     []string `json:"page_contents"`
	CreatedAt        string   `json:"created_at"`
	ChunkingStrategy string   `json:"chunking_strategy"`
}

func toDTO(doc *domain.Document) documentDTO {
	return documentDTO{
		TenantID:         doc.TenantID(),
		DocID:            doc.DocumentID(),
		Label:            doc.Label(),
		MimeType:         doc.MIMEType(),
		PageContents:     doc.Pages(),
		CreatedAt:        doc.CreatedAt().UTC().Format(time.RFC3339),
		ChunkingStrategy: string(doc.ChunkingStrategy()),
	}
}

func fromDTO(dto documentDTO) (domain.Document, error) {
	createdAt, err := time.Parse(time.RFC3339, dto.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	strategy, err := domain.ParseStrategy(dto.ChunkingStrategy)
	if err != nil {
		return domain.Document{}, err
	}

	return domain.ReconstructDocument(
		dto.TenantID,
		dto.DocID,
		dto.Label,
		dto.MimeType,
		dto.PageContents,
		createdAt,
		strategy,
	), nil
}
