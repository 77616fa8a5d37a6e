// Package chi exposes the HTTP surface: the voice pipeline endpoint,
// health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pavneets956-design/Align/internal/domain"
	healthuc "github.com/pavneets956-design/Align/internal/usecase/health"
	voiceuc "github.com/pavneets956-design/Align/internal/usecase/voice"
)

// Error codes returned in JSON error bodies.
const (
	codeAudioRequired         = "audio_required"
	codeEmptyTranscript       = "empty_transcript"
	codeRateLimited           = "rate_limited"
	codeTranscriptionFailed   = "transcription_failed"
	codeGenerationFailed      = "generation_failed"
	codeEmbeddingProviderDown = "embedding_provider_error"
	codeInternalError         = "internal_error"
)

// VoiceResponder runs the audio-to-reply pipeline.
type VoiceResponder interface {
	Respond(ctx context.Context, req voiceuc.Request) (*voiceuc.Reply, error)
}

// RequestLimiter admits or denies a request for a client key.
type RequestLimiter interface {
	Allow(key string) bool
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server handles the HTTP API.
type Server struct {
	voice         VoiceResponder
	limiter       RequestLimiter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(voice VoiceResponder, limiter RequestLimiter, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		voice:   voice,
		limiter: limiter,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrAudioRequired, http.StatusBadRequest, codeAudioRequired),
		sentinelHandler(domain.ErrEmptyTranscript, http.StatusUnprocessableEntity, codeEmptyTranscript),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrTranscriptionProviderError, http.StatusBadGateway, codeTranscriptionFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderDown),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeGenerationFailed),
	}
	return s
}

// Routes registers the API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/voice", s.Voice)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError)
}

// clientKey identifies the caller for rate limiting. Proxy headers win
// over the socket address.
func clientKey(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
