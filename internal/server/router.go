// Package server wires the middleware stack and the route table.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velodash/gearframe/internal/gear"
	"github.com/velodash/gearframe/internal/server/handlers"
	"github.com/velodash/gearframe/internal/server/middleware"
	"github.com/velodash/gearframe/internal/strava"
	"github.com/velodash/gearframe/internal/tokens"
)

// Rate limit protecting the upstream platform quota: generous for a
// handful of displays polling every few minutes, tight for runaways.
const (
	rateLimitRequests = 60
	rateLimitWindow   = time.Minute
)

// Deps carries everything the router needs
type Deps struct {
	Logger     *slog.Logger
	Store      tokens.Store
	Client     *strava.Client
	Sessions   handlers.SessionProvider
	Aggregator *gear.Aggregator
	Version    string
}

// NewRouter builds the route table with the full middleware stack
func NewRouter(deps Deps) http.Handler {
	auth := handlers.NewAuthHandler(deps.Logger, deps.Store, deps.Client)
	gearH := handlers.NewGearHandler(deps.Logger, deps.Sessions, deps.Aggregator)
	health := handlers.NewHealthHandler(deps.Logger, deps.Version)

	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.LoggingWithSkip(deps.Logger, []string{"/health", "/metrics"}))
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit(rateLimitRequests, rateLimitWindow, deps.Logger))

	r.Get("/", auth.Status)
	r.Get("/strava/auth", auth.Login)
	r.Get("/strava/callback", auth.Callback)

	r.Route("/users/{userID}/gear", func(r chi.Router) {
		r.Get("/", gearH.List)
		r.Get("/{gearID}", gearH.Stats)
		r.Get("/{gearID}/image", gearH.Image)
	})

	r.Get("/health", health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
