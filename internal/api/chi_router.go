// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires handlers and middleware into the Chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router over the given handler and middleware.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight works

	// Health endpoints get permissive rate limiting for monitoring.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Prometheus metrics endpoint.
	r.With(router.chiMiddleware.RateLimitHealth()).
		Handle("/metrics", promhttp.Handler())

	// Project ingest, analysis control surface, and result queries.
	r.Route("/api/v1/projects/{projectID}", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics())

		r.Post("/elements", router.handler.IngestElements)

		r.Post("/analysis", router.handler.StartAnalysis)
		r.Delete("/analysis", router.handler.CancelAnalysis)
		r.Get("/analysis/progress", router.handler.GetProgress)

		r.Get("/radiation", router.handler.GetRadiationResults)
		r.Delete("/radiation", router.handler.DeleteRadiationResults)
		r.Get("/radiation/summary", router.handler.GetSummary)
		r.Get("/radiation/failures", router.handler.GetFailures)
	})

	// Progress stream. The WebSocket upgrade performs its own origin
	// check; rate limiting the handshake is still worthwhile.
	r.With(router.chiMiddleware.RateLimit()).
		Get("/api/v1/ws", router.handler.WebSocket)

	return r
}
