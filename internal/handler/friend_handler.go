package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sui-chat/api/internal/middleware"
	"github.com/sui-chat/api/internal/model"
)

// FriendOps is the friend logic behind /api/friends.
type FriendOps interface {
	ListFriends(ctx context.Context, address string) (*model.FriendList, error)
	AddFriend(ctx context.Context, address, friend string) (*model.AddFriendResult, error)
	RemoveFriend(ctx context.Context, address, friend string) (*model.RemoveFriendResult, error)
}

// FriendHandler exposes HTTP endpoints for friend operations.
type FriendHandler struct {
	S FriendOps
	// Auth requires mutations to come from the wallet they modify.
	Auth bool
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(s FriendOps, auth bool) *FriendHandler { return &FriendHandler{S: s, Auth: auth} }

// List returns the friend profiles of the address in the query string.
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.S.ListFriends(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Add adds friendAddress to address's friend list.
func (h *FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address       string `json:"address"`
		FriendAddress string `json:"friendAddress"`
	}
	// an empty body falls through to field validation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.authorize(r, req.Address); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := h.S.AddFriend(r.Context(), req.Address, req.FriendAddress)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Remove deletes friendAddress from address's friend list.
func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	address := q.Get("address")

	if err := h.authorize(r, address); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	res, err := h.S.RemoveFriend(r.Context(), address, q.Get("friendAddress"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Preflight answers bare OPTIONS requests.
func (h *FriendHandler) Preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *FriendHandler) authorize(r *http.Request, address string) error {
	if !h.Auth || address == "" {
		return nil
	}
	if middleware.WalletFromContext(r.Context()) != address {
		return model.ErrForbidden
	}
	return nil
}
