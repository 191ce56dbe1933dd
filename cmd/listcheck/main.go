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

	"github.com/kailas-cloud/listcheck/internal/config"
	dbRedis "github.com/kailas-cloud/listcheck/internal/db/redis"
	"github.com/kailas-cloud/listcheck/internal/index"
	logpkg "github.com/kailas-cloud/listcheck/internal/logger"
	"github.com/kailas-cloud/listcheck/internal/metrics"
	catalogrepo "github.com/kailas-cloud/listcheck/internal/repository/catalog"
	submissionrepo "github.com/kailas-cloud/listcheck/internal/repository/submission"
	chiTransport "github.com/kailas-cloud/listcheck/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/listcheck/internal/transport/openai"
	healthuc "github.com/kailas-cloud/listcheck/internal/usecase/health"
	submissionuc "github.com/kailas-cloud/listcheck/internal/usecase/submission"
	validationuc "github.com/kailas-cloud/listcheck/internal/usecase/validation"
	"github.com/kailas-cloud/listcheck/internal/version"
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

	logger.Info("Starting listcheck API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Load the head-office catalog and build the similarity index
	cat, err := catalogrepo.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	model, err := index.Build(cat)
	if err != nil {
		logger.Fatal("Failed to build similarity index", zap.Error(err))
	}
	logger.Info("Catalog indexed",
		zap.Int("products", len(cat)),
		zap.Int("vocabulary", model.VocabularySize()),
	)

	// Create the submission store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Optional LLM explainer. Pass nil interface (not typed nil pointer!)
	// when disabled.
	var explainer submissionuc.Explainer
	if cfg.Explainer.APIKey != "" {
		explainer = openaiTransport.NewExplainer(&openaiTransport.Config{
			APIKey:  cfg.Explainer.APIKey,
			BaseURL: cfg.Explainer.BaseURL,
			Model:   cfg.Explainer.Model,
			Logger:  logger,
		})
		logger.Info("Explainer enabled", zap.String("model", cfg.Explainer.Model))
	}

	// Create repositories and use case services
	subRepo := submissionrepo.New(store).WithKeyPrefix(cfg.Storage.KeyPrefix)

	validationSvc := validationuc.New(model, logger).WithTopK(cfg.Engine.TopK)
	submissionSvc := submissionuc.New(subRepo, explainer, logger)
	healthSvc := healthuc.New(store, len(cat))

	// Create chi server
	server := chiTransport.NewServer(validationSvc, submissionSvc, healthSvc, cat.Categories(), logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
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
