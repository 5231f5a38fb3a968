package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document is the extracted-text artifact produced by one load operation.
// It is immutable by convention: written once to the document store and only
// ever re-read by the splitter.
type Document struct {
	tenantID   string
	documentID string
	label      string
	mimeType   string
	pages      []string
	createdAt  time.Time
	strategy   Strategy
}

// NewDocument validates and creates a Document. A document with no extracted
// page contents is a failed load, not an artifact.
func NewDocument(
	tenantID, documentID, label, mimeType string,
	pages []string, createdAt time.Time, strategy Strategy,
) (Document, error) {
	if tenantID == "" {
		return Document{}, fmt.Errorf("tenant id is required")
	}
	if documentID == "" {
		return Document{}, fmt.Errorf("document id is required")
	}
	if len(pages) == 0 {
		return Document{}, fmt.Errorf("page contents must be non-empty")
	}
	return Document{
		tenantID:   tenantID,
		documentID: documentID,
		label:      label,
		mimeType:   mimeType,
		pages:      append([]string(nil), pages...),
		createdAt:  createdAt,
		strategy:   strategy,
	}, nil
}

// ReconstructDocument creates a Document without validation (storage hydration).
func ReconstructDocument(
	tenantID, documentID, label, mimeType string,
	pages []string, createdAt time.Time, strategy Strategy,
) Document {
	return Document{
		tenantID:   tenantID,
		documentID: documentID,
		label:      label,
		mimeType:   mimeType,
		pages:      pages,
		createdAt:  createdAt,
		strategy:   strategy,
	}
}

// TenantID returns the logical partition key.
func (d *Document) TenantID() string { return d.tenantID }

// DocumentID returns the generated unique identifier.
func (d *Document) DocumentID() string { return d.documentID }

// Label returns the human-readable name.
func (d *Document) Label() string { return d.label }

// MIMEType returns the declared content type.
func (d *Document) MIMEType() string { return d.mimeType }

// Pages returns the ordered extracted text segments, one per source page.
func (d *Document) Pages() []string { return d.pages }

// CreatedAt returns the load-time timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// ChunkingStrategy returns the strategy carried forward for the splitter.
func (d *Document) ChunkingStrategy() Strategy { return d.strategy }

// NewDocumentID generates a hex-encoded UUID without separators.
func NewDocumentID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
