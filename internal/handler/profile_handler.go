package handler

import (
	"context"
	"net/http"

	"github.com/sui-chat/api/internal/model"
)

type ProfileGetter interface {
	Get(ctx context.Context, address string) (*model.Profile, error)
}

// ProfileHandler exposes HTTP endpoints for profile operations.
type ProfileHandler struct{ S ProfileGetter }

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(s ProfileGetter) *ProfileHandler { return &ProfileHandler{s} }

// Get returns the profile of the address in the query string.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.S.Get(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
