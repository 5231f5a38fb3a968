package record

import (
	"encoding/binary"
	"math"

	"github.com/kailas-cloud/docpipe/internal/domain"
)

// Hash field names for chunk records. These are also the only fields a
// Find filter may reference.
const (
	fieldID         = "id"
	fieldTenantID   = "tenantId"
	fieldDocumentID = "documentId"
	fieldText       = "text"
	fieldVector     = "vector"
)

// fieldScore is the KNN distance alias FT.SEARCH derives from the vector
// field name. It must be requested explicitly when a RETURN clause is used,
// otherwise hits come back without a score.
const fieldScore = "__vector_score"

var allowedFields = map[string]bool{
	fieldID:         true,
	fieldTenantID:   true,
	fieldDocumentID: true,
	fieldText:       true,
	fieldVector:     true,
}

// chunkToHash converts a chunk to a map for HSET. The vector field is only
// present once the encoder has attached an embedding.
func chunkToHash(c *domain.Chunk) map[string]string {
	fields := map[string]string{
		fieldID:         c.ID(),
		fieldTenantID:   c.TenantID(),
		fieldDocumentID: c.DocumentID(),
		fieldText:       c.Text(),
	}
	if v := c.Vector(); v != nil {
		fields[fieldVector] = string(vectorToBytes(v))
	}
	return fields
}

// chunkFromHash hydrates a chunk from an HGETALL result map.
func chunkFromHash(m map[string]string) domain.Chunk {
	var vector []float32
	if raw, ok := m[fieldVector]; ok && raw != "" {
		vector = bytesToVector([]byte(raw))
	}
	return domain.ReconstructChunk(m[fieldID], m[fieldTenantID], m[fieldDocumentID], m[fieldText], vector)
}

// vectorToBytes encodes a float32 slice as little-endian bytes (FT.SEARCH
// VECTOR field format).
func vectorToBytes(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// bytesToVector decodes little-endian float32 bytes back into a slice.
func bytesToVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
