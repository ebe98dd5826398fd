// Package chi exposes the scoring pipeline over HTTP. Input validation for
// callers happens here; the core packages only ever see normalized records.
package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
	"github.com/Vamap91/scoreinsuranteout25/internal/usecase/scoring"
	"github.com/Vamap91/scoreinsuranteout25/internal/version"
)

// Server handles the scoring API routes.
type Server struct {
	scoring *scoring.Service
	index   *index.Index
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(scoringSvc *scoring.Service, ix *index.Index, logger *zap.Logger) *Server {
	return &Server{scoring: scoringSvc, index: ix, logger: logger}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/score", s.handleScore)
	r.Get("/v1/corpus/stats", s.handleCorpusStats)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// scoreRequest is the POST /v1/score payload.
type scoreRequest struct {
	Client domain.ClientRecord `json:"client"`
	// ExternalScore is the composite verification score (0-1000) produced
	// by the bureau/registry lookups, when the caller already has one.
	ExternalScore *int `json:"external_score,omitempty"`
	// Signals are individual verification adjustments, aggregated into an
	// external score when external_score is absent.
	Signals []signalDTO `json:"signals,omitempty"`
}

type signalDTO struct {
	Category string  `json:"category"`
	Delta    float64 `json:"delta"`
	Reason   string  `json:"reason"`
}

// handleScore handles POST /v1/score.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	if req.Client.Location.PostalCode == "" && req.Client.Vehicle.Brand == "" {
		writeError(w, http.StatusBadRequest, "validation_failed",
			"client record requires at least a postal code or a vehicle brand")
		return
	}
	if req.ExternalScore != nil && (*req.ExternalScore < domain.ScoreMin || *req.ExternalScore > domain.ScoreMax) {
		writeError(w, http.StatusBadRequest, "validation_failed", "external_score must be within 0-1000")
		return
	}

	opts := scoring.Options{ExternalScore: req.ExternalScore}
	for _, sig := range req.Signals {
		opts.Signals = append(opts.Signals, scoring.Signal{
			Category: domain.Category(sig.Category),
			Delta:    sig.Delta,
			Reason:   sig.Reason,
		})
	}

	report := s.scoring.Score(r.Context(), req.Client, opts)
	writeJSON(w, http.StatusOK, report)
}

// handleCorpusStats handles GET /v1/corpus/stats.
func (s *Server) handleCorpusStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.index.Stats())
}

// handleHealth handles GET /health. A reachable server always has a built
// index: startup aborts before serving otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     version.Version,
		"corpus_size": s.index.Size(),
	})
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
