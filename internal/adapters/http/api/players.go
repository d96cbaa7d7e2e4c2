package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/playerdex/internal/domain/query"
)

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	Player(ctx context.Context, id string) (PlayerView, error)
	SearchPrefix(ctx context.Context, prefix string) ([]PlayerView, error)
	SearchTags(ctx context.Context, tags []string) ([]PlayerView, error)
}

// PlayersHandler handles player lookups and searches.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayer handles GET /players/{id} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing player id", ErrBadRequest))
		return
	}
	p, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSearchPrefix handles GET /players?prefix=P requests. A search
// without hits answers with an empty list.
func (h *PlayersHandler) HandleSearchPrefix(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("prefix") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing prefix", ErrBadRequest))
		return
	}
	players, err := h.deps.SearchPrefix(r.Context(), q.Get("prefix"))
	if err != nil && !errors.Is(err, query.ErrNotFound) {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}

// HandleSearchTags handles GET /players/search?tag=A&tag=B requests.
func (h *PlayersHandler) HandleSearchTags(w http.ResponseWriter, r *http.Request) {
	tags := r.URL.Query()["tag"]
	if len(tags) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: at least one tag is required", ErrBadRequest))
		return
	}
	players, err := h.deps.SearchTags(r.Context(), tags)
	if err != nil && !errors.Is(err, query.ErrNotFound) {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
