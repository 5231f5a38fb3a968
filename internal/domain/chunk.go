package domain

import "fmt"

// Chunk is one bounded-size unit of a document's text, stored as a record in
// the record store. The vector stays nil until the encoder runs.
type Chunk struct {
	id         string
	tenantID   string
	documentID string
	text       string
	vector     []float32
}

// ChunkID derives the deterministic record id for a (document, index) pair.
// Re-splitting the same document overwrites records instead of duplicating.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}

// NewChunk creates a vector-less chunk record.
func NewChunk(id, tenantID, documentID, text string) Chunk {
	return Chunk{id: id, tenantID: tenantID, documentID: documentID, text: text}
}

// ReconstructChunk creates a Chunk from stored fields (storage hydration).
func ReconstructChunk(id, tenantID, documentID, text string, vector []float32) Chunk {
	return Chunk{id: id, tenantID: tenantID, documentID: documentID, text: text, vector: vector}
}

// ID returns the record identifier.
func (c *Chunk) ID() string { return c.id }

// TenantID returns the partition key.
func (c *Chunk) TenantID() string { return c.tenantID }

// DocumentID returns the originating document.
func (c *Chunk) DocumentID() string { return c.documentID }

// Text returns the chunk substring.
func (c *Chunk) Text() string { return c.text }

// Vector returns the embedding, or nil before encoding.
func (c *Chunk) Vector() []float32 { return c.vector }

// WithVector returns a copy with the embedding attached.
func (c *Chunk) WithVector(v []float32) Chunk {
	return Chunk{id: c.id, tenantID: c.tenantID, documentID: c.documentID, text: c.text, vector: v}
}

// ScoredChunk is a chunk paired with its similarity score from a KNN search.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
