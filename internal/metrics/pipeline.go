package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	DocumentsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "documents_loaded_total",
			Help:      "Total number of documents loaded",
		},
		[]string{"extractor", "status"},
	)

	ChunksSplitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "chunks_split_total",
			Help:      "Total number of chunks produced by the splitter",
		},
		[]string{"strategy"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docpipe",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	OCRRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "ocr_requests_total",
			Help:      "Total number of OCR processing requests",
		},
		[]string{"model", "status"},
	)

	OCRRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docpipe",
			Name:      "ocr_request_duration_seconds",
			Help:      "OCR processing request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentsLoadedTotal)
	prometheus.MustRegister(ChunksSplitTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(OCRRequestsTotal)
	prometheus.MustRegister(OCRRequestDuration)
	pipelineMetricsRegistered = true
}
