package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/docpipe/internal/db"
	"github.com/kailas-cloud/docpipe/internal/domain"
)

// store is the consumer interface for document artifacts (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo persists document artifacts as opaque JSON blobs, one key per
// document, partitioned by tenant in the key path.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a document artifact repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Save writes the document artifact under {prefix}{tenant}/{docID}.json.
func (r *Repo) Save(ctx context.Context, doc *domain.Document) error {
	data, err := json.Marshal(toDTO(doc))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	key := r.docKey(doc.TenantID(), doc.DocumentID())
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Load returns the document artifact for (tenantID, documentID).
func (r *Repo) Load(ctx context.Context, tenantID, documentID string) (domain.Document, error) {
	key := r.docKey(tenantID, documentID)

	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Document{}, domain.ErrDocumentNotFound
		}
		return domain.Document{}, fmt.Errorf("get %s: %w", key, err)
	}

	var dto documentDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return fromDTO(dto)
}

// Delete removes the document artifact for (tenantID, documentID).
func (r *Repo) Delete(ctx context.Context, tenantID, documentID string) error {
	key := r.docKey(tenantID, documentID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) docKey(tenantID, documentID string) string {
	return fmt.Sprintf("%s%s/%s.json", r.keyPrefix, tenantID, documentID)
}
