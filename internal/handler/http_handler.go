package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sui-chat/api/internal/config"
	"github.com/sui-chat/api/internal/middleware"
	"github.com/sui-chat/api/internal/observability"
)

// Deps groups what the router serves.
type Deps struct {
	Friends     FriendOps
	Profiles    ProfileGetter
	DB          Pinger
	Diagnostics *Diagnostics
}

// NewRouter builds the HTTP router with all friend and profile routes.
func NewRouter(cfg *config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(observability.MetricsMiddleware(cfg.ServiceName))
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.Use(middleware.Timeout(15 * time.Second))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	fh := NewFriendHandler(d.Friends, cfg.AuthEnabled())
	ph := NewProfileHandler(d.Profiles)

	mutate := r.With()
	if cfg.AuthEnabled() {
		mutate = r.With(middleware.JWT([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience))
	}

	// Friend routes
	path := "/api/friends"
	r.Get(path, fh.List)
	r.Options(path, fh.Preflight)
	mutate.Post(path, fh.Add)
	mutate.Delete(path, fh.Remove)

	r.Get("/api/profile", ph.Get)

	if d.Diagnostics != nil {
		r.Get("/api/test-mongodb-connection", d.Diagnostics.TestConnection)
	}

	// Health
	healthPath := "/health"
	r.Get(healthPath+"/live", Health())
	r.Get(healthPath+"/ready", Ready(d.DB))

	return otelhttp.NewHandler(r, cfg.ServiceName)
}
