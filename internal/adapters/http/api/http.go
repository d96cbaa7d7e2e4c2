// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/playerdex/internal/app"
	"github.com/okian/playerdex/internal/domain/query"
	"github.com/okian/playerdex/internal/domain/types"
)

// DefaultMaxTopLimit caps k on /top when no limit is configured.
const DefaultMaxTopLimit = 1000

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	TopDependencies
	UserRatingsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	topHandler         *TopHandler
	userRatingsHandler *UserRatingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTopLimit int) *Server {
	if maxTopLimit < 1 {
		maxTopLimit = DefaultMaxTopLimit
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		topHandler:         NewTopHandler(deps, maxTopLimit),
		userRatingsHandler: NewUserRatingsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /players/search", MetricsMiddleware(s.playersHandler.HandleSearchTags, "players_search"))
	mux.HandleFunc("GET /players/{id}", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "player"))
	mux.HandleFunc("GET /players", MetricsMiddleware(s.playersHandler.HandleSearchPrefix, "players"))
	mux.HandleFunc("GET /top", MetricsMiddleware(s.topHandler.HandleGetTop, "top"))
	mux.HandleFunc("GET /users/{id}/ratings", MetricsMiddleware(s.userRatingsHandler.HandleGetUserRatings, "user_ratings"))
}

// PlayerView mirrors the read shape returned by player queries.
type PlayerView = types.PlayerView

// UserRatingView mirrors the read shape returned by user history queries.
type UserRatingView = types.UserRatingView

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: w.Header().Get(RequestIDHeader),
	})
}

// HTTPStatusCode maps an upstream error to a status code and error code.
func HTTPStatusCode(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, query.ErrEmptyQuery), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrInvalidLimit):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, service.ErrNotLoaded):
		return http.StatusServiceUnavailable, "not_loaded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	status, code := HTTPStatusCode(err)
	writeError(w, status, code, err)
}
