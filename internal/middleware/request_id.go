package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sui-chat/api/internal/observability"
)

const HeaderRequestID = "X-Request-Id"

// RequestID propagates the caller's request id, or mints one, and echoes it
// in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := observability.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
