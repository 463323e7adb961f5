// Package http exposes the confidence engine over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
)

// ConfidenceUpdater is the engine surface the API exposes.
type ConfidenceUpdater interface {
	UpdateOne(ctx context.Context, id uuid.UUID) (*domain.ConfidenceResult, error)
	UpdateAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConfidenceResult, error)
}

// RefreshEnqueuer accepts debounced refresh triggers.
type RefreshEnqueuer interface {
	Enqueue(userID uuid.UUID)
}

// Server wires the confidence engine into a chi router.
type Server struct {
	Confidence ConfidenceUpdater
	Queue      RefreshEnqueuer
	Logger     *slog.Logger
}

// NewServer creates a new API server instance.
// queue may be nil, in which case async refresh requests fall back to the
// synchronous path; logger may be nil, in which case slog.Default() is
// used.
func NewServer(confidence ConfidenceUpdater, queue RefreshEnqueuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Confidence: confidence,
		Queue:      queue,
		Logger:     logger,
	}
}

// Router builds the HTTP routing table. Every /api route sits behind the
// bearer-token check.
func (s *Server) Router(apiToken string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/v1/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(apiToken))
		r.Post("/api/v1/planned-expenses/{id}/confidence", s.handleUpdateOne)
		r.Post("/api/v1/users/{userID}/confidence/refresh", s.handleUpdateAllForUser)
	})

	return r
}

// confidenceResultResponse is the JSON shape of a ConfidenceResult.
// Monetary fields are strings to keep exact decimal representation on the
// wire.
type confidenceResultResponse struct {
	Tier              string   `json:"tier"`
	Score             int      `json:"score"`
	CurrentBalance    string   `json:"current_balance"`
	ProjectedBalance  string   `json:"projected_balance"`
	ProjectedIncome   string   `json:"projected_income"`
	ProjectedExpenses string   `json:"projected_expenses"`
	RiskFactors       []string `json:"risk_factors"`
	CanAfford         bool     `json:"can_afford"`
}

type refreshResponse struct {
	Updated int                        `json:"updated"`
	Results []confidenceResultResponse `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdateOne evaluates a single planned expense and persists its tier
func (s *Server) handleUpdateOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid planned expense id"})
		return
	}

	result, err := s.Confidence.UpdateOne(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(result))
}

// handleUpdateAllForUser refreshes every eligible planned expense for a
// user. Per-item failures are already swallowed by the engine; the caller
// only sees how many succeeded. With ?async=true the request is coalesced
// through the debounce queue instead and answered 202 immediately.
func (s *Server) handleUpdateAllForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if r.URL.Query().Get("async") == "true" && s.Queue != nil {
		s.Queue.Enqueue(userID)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	results, err := s.Confidence.UpdateAllForUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := refreshResponse{
		Updated: len(results),
		Results: make([]confidenceResultResponse, 0, len(results)),
	}
	for _, result := range results {
		resp.Results = append(resp.Results, toResultResponse(result))
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeError maps domain errors to HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPlannedExpenseNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.Logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func toResultResponse(result *domain.ConfidenceResult) confidenceResultResponse {
	factors := result.RiskFactors
	if factors == nil {
		factors = []string{}
	}
	return confidenceResultResponse{
		Tier:              string(result.Tier),
		Score:             result.Score,
		CurrentBalance:    result.CurrentBalance.String(),
		ProjectedBalance:  result.ProjectedBalance.String(),
		ProjectedIncome:   result.ProjectedIncome.String(),
		ProjectedExpenses: result.ProjectedExpenses.String(),
		RiskFactors:       factors,
		CanAfford:         result.CanAfford,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
