package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/config"
	dbRedis "github.com/pavneets956-design/Align/internal/db/redis"
	logpkg "github.com/pavneets956-design/Align/internal/logger"
	"github.com/pavneets956-design/Align/internal/metrics"
	"github.com/pavneets956-design/Align/internal/repository/embcache"
	passagerepo "github.com/pavneets956-design/Align/internal/repository/passage"
	chiTransport "github.com/pavneets956-design/Align/internal/transport/chi"
	openaiTransport "github.com/pavneets956-design/Align/internal/transport/openai"
	"github.com/pavneets956-design/Align/internal/usecase/health"
	queryuc "github.com/pavneets956-design/Align/internal/usecase/query"
	"github.com/pavneets956-design/Align/internal/usecase/rank"
	"github.com/pavneets956-design/Align/internal/usecase/ratelimit"
	"github.com/pavneets956-design/Align/internal/usecase/reply"
	"github.com/pavneets956-design/Align/internal/usecase/retrieval"
	"github.com/pavneets956-design/Align/internal/usecase/safety"
	voiceuc "github.com/pavneets956-design/Align/internal/usecase/voice"
	"github.com/pavneets956-design/Align/internal/version"
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

	logger.Info("Starting lightd API server",
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

	// Provider adapters share one OpenAI client.
	client := openaiTransport.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	transcriber := openaiTransport.NewTranscriber(client, cfg.OpenAI.TranscriptionModel, logger)
	generator := openaiTransport.NewGenerator(client, cfg.OpenAI.ChatModel, logger)
	baseEmbedder := openaiTransport.NewEmbedder(client, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.Dimensions, logger)
	embedder := embcache.New(
		baseEmbedder, store,
		time.Duration(cfg.Cache.EmbeddingTTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Provider adapters created",
		zap.String("chat_model", cfg.OpenAI.ChatModel),
		zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
		zap.String("transcription_model", cfg.OpenAI.TranscriptionModel),
	)

	// Pipeline stages
	passages := passagerepo.New(store)
	retriever := retrieval.New(embedder, passages, cfg.Pipeline.CandidateCount)
	weights := rank.Weights{
		State:         cfg.Pipeline.StateWeight,
		Virtue:        cfg.Pipeline.VirtueWeight,
		Theme:         cfg.Pipeline.ThemeWeight,
		SourceBonus:   cfg.Pipeline.SourceBonus,
		FavoredSource: cfg.Pipeline.FavoredSource,
		WeightScale:   cfg.Pipeline.WeightScale,
		MaxPerSource:  cfg.Pipeline.MaxPerSource,
		FinalCount:    cfg.Pipeline.FinalCount,
	}
	voiceSvc := voiceuc.New(
		transcriber,
		queryuc.NewNormalizer(generator),
		queryuc.NewSignalExtractor(generator),
		retriever,
		safety.NewGate(generator),
		reply.NewStreamer(generator),
		weights,
		time.Duration(cfg.Pipeline.StageTimeoutSec)*time.Second,
	)

	limiter := ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSec)*time.Second)
	defer limiter.Stop()

	healthSvc := health.New(store, baseEmbedder)

	server := chiTransport.NewServer(voiceSvc, limiter, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: allowOrigin(cfg.CORS.AllowedOrigins),
		AllowedMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:  []string{"*"},
	}))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		// No WriteTimeout: the voice endpoint holds an SSE stream open
		// for the full generation.
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

// allowOrigin admits configured origins plus local development clients.
func allowOrigin(allowed []string) func(r *http.Request, origin string) bool {
	return func(_ *http.Request, origin string) bool {
		if strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "http://127.0.0.1") ||
			strings.HasPrefix(origin, "exp://") {
			return true
		}
		return slices.Contains(allowed, origin)
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
						"error": "internal_error",
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

			// Set X-Request-ID in response header
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
