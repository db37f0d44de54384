package main

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/kahwa-ai/brewrag/internal/config"
	dbPostgres "github.com/kahwa-ai/brewrag/internal/db/postgres"
	dbRedis "github.com/kahwa-ai/brewrag/internal/db/redis"
	"github.com/kahwa-ai/brewrag/internal/domain"
	logpkg "github.com/kahwa-ai/brewrag/internal/logger"
	"github.com/kahwa-ai/brewrag/internal/metrics"
	documentrepo "github.com/kahwa-ai/brewrag/internal/repository/document"
	"github.com/kahwa-ai/brewrag/internal/repository/embcache"
	backendTransport "github.com/kahwa-ai/brewrag/internal/transport/backend"
	chiTransport "github.com/kahwa-ai/brewrag/internal/transport/chi"
	openaiTransport "github.com/kahwa-ai/brewrag/internal/transport/openai"
	healthuc "github.com/kahwa-ai/brewrag/internal/usecase/health"
	indexeruc "github.com/kahwa-ai/brewrag/internal/usecase/indexer"
	raguc "github.com/kahwa-ai/brewrag/internal/usecase/rag"
	retrieveruc "github.com/kahwa-ai/brewrag/internal/usecase/retriever"
	"github.com/kahwa-ai/brewrag/internal/version"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting brewrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_host", cfg.Database.Host),
		zap.String("collection", cfg.RAG.Collection),
	)

	ctx := context.Background()

	store, err := dbPostgres.New(ctx, dbPostgres.Config{
		DSN:             cfg.Database.DSN(),
		HNSWM:           cfg.Database.HNSWM,
		HNSWEFConstruct: cfg.Database.HNSWEFConstruct,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRAGMetrics()

	// Optional embedding cache
	var cache *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embedder := buildEmbedder(cfg, cache, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Timeout:     time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
		Provider:    cfg.Generation.Provider,
		Logger:      logger,
	})

	backend := backendTransport.New(
		cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.TimeoutSec)*time.Second,
		logger,
	)

	docRepo := documentrepo.New(store)

	indexerSvc := indexeruc.New(backend, docRepo, embedder, cfg.RAG.Collection, logger)
	retrieverSvc := retrieveruc.New(docRepo, embedder, cfg.RAG.Collection)

	pipeline := raguc.New(retrieverSvc, generator, embedder, store, raguc.Options{
		Collection:    cfg.RAG.Collection,
		Dimensions:    cfg.Embedding.Dimensions,
		ContextBudget: cfg.RAG.ContextBudget,
		DefaultTopK:   cfg.RAG.TopK,
		MaxTopK:       cfg.RAG.MaxTopK,
	}, logger)

	if err := pipeline.Initialize(ctx); err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			logger.Fatal("Pipeline misconfigured", zap.Error(err))
		}
		logger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}

	if cfg.RAG.IndexOnStartup {
		res, err := indexerSvc.Reindex(ctx)
		if err != nil {
			// The previously indexed corpus keeps serving queries.
			logger.Error("Startup reindex failed", zap.Error(err))
		} else {
			logger.Info("Startup reindex finished",
				zap.Int("indexed", res.Indexed),
				zap.Int("skipped", res.Skipped),
				zap.Int64("pruned", res.Pruned),
			)
		}
	}

	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(store, cachePinger, newProviderHealthChecker(embedder), generator)

	server := chiTransport.NewServer(pipeline, indexerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
	pipeline.Shutdown()

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
func buildEmbedder(cfg config.Config, cache *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	if cache == nil {
		return base
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	return embcache.New(base, cache, ttl, metrics.EmbeddingCacheTotal, logger)
}

// providerHealthChecker narrows an embedder to health.ProviderChecker.
type providerHealthChecker struct {
	embedder domain.Embedder
}

func newProviderHealthChecker(embedder domain.Embedder) *providerHealthChecker {
	return &providerHealthChecker{embedder: embedder}
}

func (h *providerHealthChecker) HealthCheck(ctx context.Context) error {
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

			// Canonical log line, one line per request
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
