package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// TopDependencies defines the interface for top-K queries.
type TopDependencies interface {
	Top(ctx context.Context, k int, position string) ([]PlayerView, error)
}

// TopHandler handles top-K requests.
type TopHandler struct {
	deps     TopDependencies
	maxLimit int
}

// NewTopHandler creates a new top-K handler.
func NewTopHandler(deps TopDependencies, maxLimit int) *TopHandler {
	return &TopHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTop handles GET /top?k=N&position=P requests. A k of zero or less
// yields an empty list.
func (h *TopHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	q := r.URL.Query()
	k, err := strconv.Atoi(q.Get("k"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: k must be an integer", op, ErrBadRequest))
		return
	}
	if k > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: %w: k exceeds %d", op, ErrInvalidLimit, h.maxLimit))
		return
	}
	position := strings.TrimSpace(q.Get("position"))
	if position == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing position", op, ErrBadRequest))
		return
	}
	players, err := h.deps.Top(r.Context(), k, position)
	if err != nil {
		writeUpstreamError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}
