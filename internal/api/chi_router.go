// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/questwise/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware

	// slowRequestThreshold is passed to the access log.
	slowRequestThreshold time.Duration
}

// NewRouter creates a router. A nil chiMiddleware uses the defaults.
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:              handler,
		chiMiddleware:        chiMiddleware,
		slowRequestThreshold: time.Second,
	}
}

// SetSlowRequestThreshold changes the latency logged as a slow request.
func (router *Router) SetSlowRequestThreshold(d time.Duration) {
	router.slowRequestThreshold = d
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)                               // X-Request-ID header and logging context
	r.Use(chimiddleware.RealIP)                               // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)                            // Recover from panics
	r.Use(middleware.AccessLog(router.slowRequestThreshold)) // One line per request
	r.Use(router.chiMiddleware.CORS())                        // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// ML Endpoints
	// ========================
	// Paths and bodies are fixed by the quest backend.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/", router.handler.Root)
		r.Post("/predict", router.handler.Predict)
		r.Post("/recommend", router.handler.Recommend)
		r.With(router.chiMiddleware.RateLimitTrain()).Post("/train", router.handler.Train)
	})

	// ========================
	// Operational API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.Compression)

		r.Get("/model", router.handler.ModelStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
