package api

import (
	"context"
	"net/http"
	"strings"
)

// UserRatingsDependencies defines the interface for user history queries.
type UserRatingsDependencies interface {
	UserRatings(ctx context.Context, userID string) ([]UserRatingView, error)
}

// UserRatingsHandler handles user history requests.
type UserRatingsHandler struct {
	deps UserRatingsDependencies
}

// NewUserRatingsHandler creates a new user history handler.
func NewUserRatingsHandler(deps UserRatingsDependencies) *UserRatingsHandler {
	return &UserRatingsHandler{deps: deps}
}

// HandleGetUserRatings handles GET /users/{id}/ratings requests.
func (h *UserRatingsHandler) HandleGetUserRatings(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	ratings, err := h.deps.UserRatings(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ratings))
}
