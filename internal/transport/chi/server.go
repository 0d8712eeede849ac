// Package chi is the HTTP API layer: request decoding, domain error
// mapping and response assembly over the comparison pipeline.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
	compareuc "github.com/comparely/pricedex/internal/usecase/compare"
	healthuc "github.com/comparely/pricedex/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the comparison pipeline over HTTP.
type Server struct {
	compare       *compareuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(compare *compareuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		compare: compare,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "empty_query"),
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, "invalid_limit"),
		sentinelHandler(domain.ErrNoCredentials, http.StatusInternalServerError, "missing_credentials"),
		sentinelHandler(domain.ErrSearchProviderError, http.StatusBadGateway, "search_provider_error"),
		sentinelHandler(domain.ErrVerifierError, http.StatusBadGateway, "verifier_error"),
	}
	return s
}

// Routes mounts all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "not found")
	})

	r.Post("/price-comparison", s.PriceComparison)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type compareRequest struct {
	Query       string `json:"query"`
	Limit       int    `json:"limit,omitempty"`
	BypassCache bool   `json:"bypass_cache,omitempty"`
}

type compareMetadata struct {
	Query           string   `json:"query"`
	Limit           int      `json:"limit"`
	ResultsCount    int      `json:"results_count"`
	ExecutionTime   float64  `json:"execution_time"`
	CacheHit        bool     `json:"cache_hit"`
	CacheAgeSeconds *float64 `json:"cache_age_seconds,omitempty"`
	CacheHitCount   *int64   `json:"cache_hit_count,omitempty"`
}

type compareResponse struct {
	Success  bool                    `json:"success"`
	Products []domain.VerifiedResult `json:"products"`
	Metadata compareMetadata         `json:"metadata"`
	Debug    *compareuc.Debug        `json:"debug,omitempty"`
}

// PriceComparison handles POST /price-comparison.
func (s *Server) PriceComparison(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	q := domain.Query{Text: req.Query, Limit: req.Limit, BypassCache: req.BypassCache}

	start := time.Now()
	result, err := s.compare.Compare(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.compare.DefaultLimit()
	}

	meta := compareMetadata{
		Query:         req.Query,
		Limit:         limit,
		ResultsCount:  len(result.Results),
		ExecutionTime: time.Since(start).Seconds(),
		CacheHit:      result.CacheHit,
	}
	if result.CacheHit {
		age := result.CacheAge.Seconds()
		meta.CacheAgeSeconds = &age
		meta.CacheHitCount = &result.HitCount
	}

	resp := compareResponse{
		Success:  true,
		Products: result.Results,
		Metadata: meta,
	}
	if !result.CacheHit {
		d := result.Debug
		resp.Debug = &d
	}
	if resp.Products == nil {
		resp.Products = []domain.VerifiedResult{}
	}

	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidLimit,
		domain.ErrNoCredentials,
		domain.ErrSearchProviderError,
		domain.ErrVerifierError,
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

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
