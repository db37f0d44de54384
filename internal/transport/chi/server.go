// Package chi exposes the RAG pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kahwa-ai/brewrag/internal/domain"
	"github.com/kahwa-ai/brewrag/internal/version"
)

// Error codes returned in JSON error responses.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeIndexingFailed   = "indexing_failed"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type queryRequest struct {
	Question string         `json:"question"`
	Filters  map[string]any `json:"filters,omitempty"`
	TopK     int            `json:"top_k,omitempty"`
}

type queryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type statusResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	State   string `json:"state"`
}

type healthResponse struct {
	Status   string            `json:"status"`
	Pipeline string            `json:"pipeline"`
	Checks   map[string]string `json:"checks"`
}

type reindexResponse struct {
	Indexed int   `json:"indexed"`
	Skipped int   `json:"skipped"`
	Pruned  int64 `json:"pruned"`
}

// Server wires the pipeline, indexer and health service into HTTP handlers.
type Server struct {
	pipeline Pipeline
	indexer  Indexer
	health   HealthService
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(pipeline Pipeline, indexer Indexer, health HealthService, logger *zap.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		indexer:  indexer,
		health:   health,
		logger:   logger,
	}
}

// Register attaches all routes to the router. Middlewares belong to the
// composition root and must be installed before this call.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Status)
	r.Get("/health", s.HealthCheck)
	r.Post("/rag-query", s.Query)
	r.Post("/admin/reindex", s.Reindex)
	r.Get("/metrics", s.Metrics)
}

// Status handles GET /. Reports the service identity and pipeline state.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Service: "brewrag",
		Version: version.Version,
		State:   s.pipeline.State().String(),
	})
}

// HealthCheck handles GET /health. The aggregated result also drives the
// pipeline's Ready/Degraded transition, so the root status endpoint
// reflects the last known dependency health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	if report.Healthy() {
		s.pipeline.MarkReady()
	} else {
		s.pipeline.MarkDegraded()
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if !report.Healthy() {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:   string(report.Status),
		Pipeline: s.pipeline.State().String(),
		Checks:   checks,
	})
}

// Query handles POST /rag-query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.pipeline.Answer(r.Context(), req.Question, domain.Metadata(req.Filters), req.TopK)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		s.logger.Error("Query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	sources := ans.UsedContextIDs
	if sources == nil {
		sources = []string{}
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:  ans.Text,
		Sources: sources,
	})
}

// Reindex handles POST /admin/reindex. Runs a full synchronous pass.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	res, err := s.indexer.Reindex(r.Context())
	if err != nil {
		s.logger.Error("Reindex failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeIndexingFailed, "reindex failed")
		return
	}

	writeJSON(w, http.StatusOK, reindexResponse{
		Indexed: res.Indexed,
		Skipped: res.Skipped,
		Pruned:  res.Pruned,
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

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
