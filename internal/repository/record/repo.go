package record

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/docpipe/internal/db"
	"github.com/kailas-cloud/docpipe/internal/domain"
)

// store is the consumer interface for chunk records (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config holds record store settings.
type Config struct {
	KeyPrefix       string
	VectorDim       int
	HNSWM           int
	HNSWEFConstruct int
}

// Repo stores chunk records as Redis hashes under an FT vector index.
type Repo struct {
	store store
	cfg   Config
}

// New creates a chunk record repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Upsert writes chunk records keyed by their ids. Records are validated
// before any write goes out, so a bad batch mutates nothing.
func (r *Repo) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		if c.ID() == "" {
			return fmt.Errorf("chunk %d has empty id: %w", i, domain.ErrInvalidInput)
		}
		items = append(items, db.HashSetItem{
			Key:    r.chunkKey(c.ID()),
			Fields: chunkToHash(c),
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset chunks: %w", err)
	}
	return nil
}

// Find returns chunk records matching all filter conditions (exact equality).
// Filter keys outside the record schema are rejected. Results come back in
// id order so repeated calls over the same data are stable.
func (r *Repo) Find(ctx context.Context, filter map[string]string) ([]domain.Chunk, error) {
	for k := range filter {
		if !allowedFields[k] {
			return nil, fmt.Errorf("unknown filter field %q: %w", k, domain.ErrInvalidInput)
		}
	}

	keys, err := r.store.Scan(ctx, r.chunkKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall chunks: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if !matchesFilter(row, filter) {
			continue
		}
		chunks = append(chunks, chunkFromHash(row))
	}
	return chunks, nil
}

// DeleteByDocument removes every chunk record derived from a document.
// Returns the number of deleted records; a document with no chunks is not
// an error.
func (r *Repo) DeleteByDocument(ctx context.Context, tenantID, documentID string) (int, error) {
	// Empty filter values match everything; deleting needs both ids.
	if tenantID == "" || documentID == "" {
		return 0, fmt.Errorf("tenant id and document id are required: %w", domain.ErrInvalidInput)
	}

	chunks, err := r.Find(ctx, map[string]string{
		fieldTenantID:   tenantID,
		fieldDocumentID: documentID,
	})
	if err != nil {
		return 0, err
	}

	for i := range chunks {
		key := r.chunkKey(chunks[i].ID())
		if err := r.store.Del(ctx, key); err != nil {
			return 0, fmt.Errorf("del chunk %s: %w", key, err)
		}
	}
	return len(chunks), nil
}

// Search runs KNN over the chunk index. The caller supplies TAG pre-filter
// conditions; tenant isolation is the caller's responsibility.
func (r *Repo) Search(ctx context.Context, vector []float32, tags map[string]string, k int) ([]domain.ScoredChunk, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(),
		Tags:         tags,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{fieldID, fieldTenantID, fieldDocumentID, fieldText, fieldScore},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]domain.ScoredChunk, 0, len(result.Entries))
	for _, entry := range result.Entries {
		hits = append(hits, domain.ScoredChunk{
			Chunk: chunkFromHash(entry.Fields),
			Score: entry.Score,
		})
	}
	return hits, nil
}

// EnsureIndex creates the chunk FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:        name,
		StorageType: db.StorageHash,
		Prefixes:    []string{r.chunkKey("")},
		Fields: []db.IndexField{
			{Name: fieldTenantID, Type: db.IndexFieldTag},
			{Name: fieldDocumentID, Type: db.IndexFieldTag},
			{Name: fieldText, Type: db.IndexFieldText},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.cfg.VectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.cfg.HNSWM,
				VectorEFConstruct: r.cfg.HNSWEFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

func (r *Repo) chunkKey(id string) string {
	return fmt.Sprintf("%schunk:%s", r.cfg.KeyPrefix, id)
}

func (r *Repo) indexName() string {
	name := fmt.Sprintf("%schunk:idx", r.cfg.KeyPrefix)
	// Key prefixes may contain characters FT.CREATE rejects in index names.
	return strings.Map(func(rn rune) rune {
		if db.IsValidIdentifier(string(rn)) {
			return rn
		}
		return '-'
	}, name)
}

func matchesFilter(row, filter map[string]string) bool {
	for k, want := range filter {
		// Empty filter values are no-ops, not equality against "".
		if want == "" {
			continue
		}
		if row[k] != want {
			return false
		}
	}
	return true
}
