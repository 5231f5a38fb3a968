package remove

import (
	"context"
)

// DocumentRemover deletes document artifacts.
type DocumentRemover interface {
	Delete(ctx context.Context, tenantID, documentID string) error
}

// RecordRemover deletes chunk records derived from a document.
type RecordRemover interface {
	DeleteByDocument(ctx context.Context, tenantID, documentID string) (int, error)
}
