package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	// Tags holds TAG-equality pre-filter conditions, ANDed together.
	// An empty map means no pre-filter (whole index).
	Tags         map[string]string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
