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
	"go.uber.org/zap"

	"github.com/Vamap91/scoreinsuranteout25/internal/cache"
	"github.com/Vamap91/scoreinsuranteout25/internal/config"
	"github.com/Vamap91/scoreinsuranteout25/internal/corpus"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
	logpkg "github.com/Vamap91/scoreinsuranteout25/internal/logger"
	"github.com/Vamap91/scoreinsuranteout25/internal/metrics"
	chiTransport "github.com/Vamap91/scoreinsuranteout25/internal/transport/chi"
	openaiEnc "github.com/Vamap91/scoreinsuranteout25/internal/transport/openai"
	"github.com/Vamap91/scoreinsuranteout25/internal/usecase/scoring"
	"github.com/Vamap91/scoreinsuranteout25/internal/vectorizer"
	"github.com/Vamap91/scoreinsuranteout25/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting scoreapi server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	ctx := context.Background()

	// Register scoring metrics explicitly (no init())
	metrics.RegisterScoringMetrics()

	// Text encoder — learned embeddings when configured, hash pseudo-embedding otherwise
	var encoder vectorizer.TextEncoder
	if cfg.Embedding.Enabled {
		enc := openaiEnc.NewEncoder(&openaiEnc.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Logger:  logger,
		})
		if err := enc.HealthCheck(ctx); err != nil {
			logger.Warn("Embedding provider unreachable, hash fallback will cover failures", zap.Error(err))
		}
		encoder = enc
		logger.Info("Learned text encoder enabled", zap.String("model", cfg.Embedding.Model))
	}
	vec := vectorizer.New(encoder)

	// Load the reference corpus and build the similarity index. The index is
	// immutable after this point; corpus problems are fatal at startup.
	records, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	ix, err := index.Build(records, vec)
	if err != nil {
		logger.Fatal("Failed to build similarity index", zap.Error(err))
	}
	logger.Info("Similarity index built",
		zap.Int("corpus_size", ix.Size()),
		zap.Int("dimensions", vectorizer.Dim),
	)

	// Result cache backend based on driver
	var backend cache.Backend
	switch cfg.Cache.Driver {
	case "memory":
		backend, err = cache.NewMemoryBackend(cfg.Cache.Capacity)
	case "redis":
		var rb *cache.RedisBackend
		rb, err = cache.NewRedisBackend(cache.RedisConfig{
			Addrs:    cfg.Cache.Redis.Addrs,
			Password: cfg.Cache.Redis.Password,
		})
		if err == nil {
			defer rb.Close()
			readiness := time.Duration(cfg.Cache.Redis.ReadinessTimeout) * time.Second
			if err := rb.WaitForReady(ctx, readiness); err != nil {
				logger.Fatal("Redis cache not ready", zap.Error(err))
			}
			logger.Info("Connected to redis cache")
			backend = rb
		}
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create cache backend", zap.Error(err))
	}

	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	resultCache := cache.New(backend, ttl, metrics.ResultCacheTotal, logger)

	// Periodic sweep evicts expired memory entries; redis expires server-side.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepLoop(sweepCtx, resultCache, time.Duration(cfg.Cache.SweepIntervalSec)*time.Second, logger)

	// Scoring service
	scoringSvc := scoring.New(ix, resultCache, scoring.Config{
		TopK:                cfg.Scoring.TopK,
		SimilarityThreshold: cfg.Scoring.SimilarityThreshold,
		MediumCloseCount:    cfg.Scoring.MediumCloseCount,
		HighCloseCount:      cfg.Scoring.HighCloseCount,
		SignalCap:           cfg.Scoring.SignalCap,
	}, logger)

	// Create chi server
	server := chiTransport.NewServer(scoringSvc, ix, logger)

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

	logger.Info("Server stopped gracefully")
}

// sweepLoop evicts expired cache entries on a fixed interval.
func sweepLoop(ctx context.Context, c *cache.Cache, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := c.Sweep(ctx); evicted > 0 {
				logger.Debug("Swept expired cache entries", zap.Int("evicted", evicted))
			}
		}
	}
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

			// Canonical log line — one line per request
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
