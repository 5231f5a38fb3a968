package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/config"
	dbRedis "github.com/kailas-cloud/docpipe/internal/db/redis"
	"github.com/kailas-cloud/docpipe/internal/domain"
	"github.com/kailas-cloud/docpipe/internal/extractor"
	logpkg "github.com/kailas-cloud/docpipe/internal/logger"
	"github.com/kailas-cloud/docpipe/internal/metrics"
	"github.com/kailas-cloud/docpipe/internal/repository/docstore"
	recordrepo "github.com/kailas-cloud/docpipe/internal/repository/record"
	chiTransport "github.com/kailas-cloud/docpipe/internal/transport/chi"
	"github.com/kailas-cloud/docpipe/internal/transport/fetch"
	"github.com/kailas-cloud/docpipe/internal/transport/mistral"
	openaiEmb "github.com/kailas-cloud/docpipe/internal/transport/openai"
	encodeuc "github.com/kailas-cloud/docpipe/internal/usecase/encode"
	healthuc "github.com/kailas-cloud/docpipe/internal/usecase/health"
	loaduc "github.com/kailas-cloud/docpipe/internal/usecase/load"
	queryuc "github.com/kailas-cloud/docpipe/internal/usecase/query"
	removeuc "github.com/kailas-cloud/docpipe/internal/usecase/remove"
	splituc "github.com/kailas-cloud/docpipe/internal/usecase/split"
	"github.com/kailas-cloud/docpipe/internal/version"
)

func main() {
	// Local secrets: missing file is fine outside development.
	_ = godotenv.Load(".env.local")

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docpipe API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Provider clients
	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	ocrClient := mistral.NewClient(&mistral.Config{
		APIKey:  cfg.OCR.APIKey,
		BaseURL: cfg.OCR.BaseURL,
		Model:   cfg.OCR.Model,
		Timeout: time.Duration(cfg.OCR.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	fetcher := fetch.New(fetch.Config{
		Timeout:  time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
		MaxBytes: cfg.Fetch.MaxBodyBytes,
	})

	registry := extractor.NewRegistry(
		extractor.NewText(),
		extractor.NewDocumentUnderstanding(ocrClient),
	)

	// Repositories
	docRepo := docstore.New(store, cfg.Storage.KeyPrefix)
	recRepo := recordrepo.New(store, recordrepo.Config{
		KeyPrefix:       cfg.Storage.KeyPrefix,
		VectorDim:       cfg.Embedding.Dimensions,
		HNSWM:           cfg.Index.HNSWM,
		HNSWEFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := recRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure chunk index", zap.Error(err))
	}

	// Use case services
	loadSvc := loaduc.New(fetcher, registry, docRepo, logger, cfg.Storage.StrictWrites)
	splitSvc := splituc.New(docRepo, recRepo, logger)
	encodeSvc := encodeuc.New(recRepo, embedder, logger)
	querySvc := queryuc.New(recRepo, embedder, queryuc.Config{
		DefaultTopK: cfg.Index.DefaultTopK,
		MaxTopK:     cfg.Index.MaxTopK,
	}, logger)
	removeSvc := removeuc.New(docRepo, recRepo, logger)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(loadSvc, splitSvc, encodeSvc, querySvc, removeSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.BatchEmbedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.BatchEmbedder
}

func newEmbeddingHealthChecker(embedder domain.BatchEmbedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
