package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/model"
	"github.com/sui-chat/api/internal/observability"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes and response bodies.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message})
	case errors.Is(err, model.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	case errors.Is(err, model.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Profile not found"})
	case model.IsStoreUnavailable(err):
		observability.GetLogger(ctx).Error("database unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "Database connection error",
			"message": "Unable to connect to database. Please try again later.",
		})
	default:
		observability.GetLogger(ctx).Error("request failed", zap.Error(err))
		msg := err.Error()
		if msg == "" {
			msg = "An unexpected error occurred"
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": msg,
		})
	}
}
