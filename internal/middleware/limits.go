package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/observability"
)

// Timeout returns middleware that cancels the request context after duration d.
// Store calls made under that context surface the deadline as an unavailable
// database.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit limits requests per client IP. An unparsable window falls back to
// one minute.
func RateLimit(requests int, window string) func(http.Handler) http.Handler {
	d, err := time.ParseDuration(window)
	if err != nil || d <= 0 {
		observability.Log.Warn("invalid rate limit window, using 1m", zap.String("window", window))
		d = time.Minute
	}

	return httprate.Limit(requests, d,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
		}),
	)
}
