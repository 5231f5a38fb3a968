package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
	logpkg "github.com/kailas-cloud/docpipe/internal/logger"
	encodeuc "github.com/kailas-cloud/docpipe/internal/usecase/encode"
	healthuc "github.com/kailas-cloud/docpipe/internal/usecase/health"
	loaduc "github.com/kailas-cloud/docpipe/internal/usecase/load"
	queryuc "github.com/kailas-cloud/docpipe/internal/usecase/query"
	splituc "github.com/kailas-cloud/docpipe/internal/usecase/split"
)

// Consumer interfaces over the pipeline services (ISP).
type loadService interface {
	Load(ctx context.Context, in loaduc.Input) (domain.Document, error)
}

type splitService interface {
	Split(ctx context.Context, tenantID, documentID string) (splituc.Output, error)
}

type encodeService interface {
	Encode(ctx context.Context, tenantID, documentID string) (encodeuc.Output, error)
}

type queryService interface {
	Query(ctx context.Context, in queryuc.Input) ([]domain.ScoredChunk, error)
}

type removeService interface {
	Remove(ctx context.Context, tenantID, documentID string) error
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the pipeline HTTP API.
type Server struct {
	load          loadService
	split         splitService
	encode        encodeService
	query         queryService
	remove        removeService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	load loadService,
	split splitService,
	encode encodeService,
	query queryService,
	remove removeService,
	health healthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		load:   load,
		split:  split,
		encode: encode,
		query:  query,
		remove: remove,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrUnsupportedMimeType, http.StatusUnsupportedMediaType, codeUnsupportedMimeType),
		sentinelHandler(domain.ErrDecodeFailed, http.StatusUnsupportedMediaType, codeUnsupportedMimeType),
		sentinelHandler(domain.ErrUnsupportedChunkingStrategy,
			http.StatusUnprocessableEntity, codeUnsupportedStrategy),
		sentinelHandler(domain.ErrDownloadFailed, http.StatusBadGateway, codeDownloadFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderErr),
		sentinelHandler(domain.ErrOCRProviderError, http.StatusBadGateway, codeOCRProviderErr),
	}
	return s
}

// Routes registers all pipeline endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/load/{tenantID}", s.handleLoad)
	r.Post("/split/{tenantID}", s.handleSplit)
	r.Post("/encode/{tenantID}", s.handleEncode)
	r.Post("/query/{tenantID}", s.handleQuery)
	r.Delete("/document/{tenantID}/{documentID}", s.handleRemove)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleLoad handles POST /load/{tenant_id}. A JSON body carries either a
// url or base64 content; an application/octet-stream body is the raw
// document itself, with label/mimeType/chunking_strategy in query params.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	in, ok := s.decodeLoadInput(w, r, tenantID)
	if !ok {
		return
	}

	doc, err := s.load.Load(r.Context(), in)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, loadResponseFromDoc(&doc))
}

func (s *Server) decodeLoadInput(w http.ResponseWriter, r *http.Request, tenantID string) (loaduc.Input, bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/octet-stream") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "failed to read request body")
			return loaduc.Input{}, false
		}

		q := r.URL.Query()
		mimeType := q.Get("mimeType")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		return loaduc.Input{
			TenantID: tenantID,
			Content:  body,
			Label:    q.Get("label"),
			MimeType: mimeType,
			Strategy: q.Get("chunking_strategy"),
		}, true
	}

	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body: "+err.Error())
		return loaduc.Input{}, false
	}
	return loaduc.Input{
		TenantID: tenantID,
		URL:      req.URL,
		Content:  req.Content,
		Label:    req.Label,
		MimeType: req.MimeType,
		Strategy: req.ChunkingStrategy,
	}, true
}

// handleSplit handles POST /split/{tenant_id}.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body: "+err.Error())
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "documentId is required")
		return
	}

	out, err := s.split.Split(r.Context(), tenantID, req.DocumentID)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	chunks := make([]chunkItem, len(out.Chunks))
	for i := range out.Chunks {
		chunks[i] = chunkItem{ID: out.Chunks[i].ID(), Text: out.Chunks[i].Text()}
	}

	writeJSON(w, http.StatusOK, splitResponse{
		TenantID:         tenantID,
		DocumentID:       req.DocumentID,
		Chunks:           chunks,
		ChunkingStrategy: string(out.Document.ChunkingStrategy()),
	})
}

// handleEncode handles POST /encode/{tenant_id}.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body: "+err.Error())
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "documentId is required")
		return
	}

	out, err := s.encode.Encode(r.Context(), tenantID, req.DocumentID)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	chunks := make([]encodedChunkItem, len(out.Chunks))
	for i := range out.Chunks {
		chunks[i] = encodedChunkItem{
			ID:     out.Chunks[i].ID(),
			Text:   out.Chunks[i].Text(),
			Vector: out.Chunks[i].Vector(),
		}
	}

	writeJSON(w, http.StatusOK, encodeResponse{
		TenantID:       tenantID,
		DocumentID:     req.DocumentID,
		Chunks:         chunks,
		EmbeddingModel: out.Model,
	})
}

// handleQuery handles POST /query/{tenant_id}.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body: "+err.Error())
		return
	}

	hits, err := s.query.Query(r.Context(), queryuc.Input{
		TenantID:   tenantID,
		Text:       req.Text,
		TopK:       req.TopK,
		DocumentID: req.DocumentID,
	})
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	results := make([]queryResultItem, len(hits))
	for i := range hits {
		results[i] = queryResultItem{
			ID:         hits[i].Chunk.ID(),
			DocumentID: hits[i].Chunk.DocumentID(),
			Text:       hits[i].Chunk.Text(),
			Score:      hits[i].Score,
		}
	}

	writeJSON(w, http.StatusOK, queryResponse{TenantID: tenantID, Results: results})
}

// handleRemove handles DELETE /document/{tenant_id}/{document_id}.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	documentID := chi.URLParam(r, "documentID")

	if err := s.remove.Remove(r.Context(), tenantID, documentID); err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, removeResponse{
		TenantID:   tenantID,
		DocumentID: documentID,
		Status:     "deleted",
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
		s.logger.Error("health check failed", zap.Any("checks", checks))
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrDownloadFailed,
		domain.ErrUnsupportedMimeType,
		domain.ErrUnsupportedChunkingStrategy,
		domain.ErrDocumentNotFound,
		domain.ErrDecodeFailed,
		domain.ErrEmbeddingProviderError,
		domain.ErrOCRProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logpkg.FromContext(ctx)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
