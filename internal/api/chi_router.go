// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/ursa/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	mw := router.chiMiddleware

	r := chi.NewRouter()
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Twilio posts form bodies and reads XML back.
	r.Route("/api/v1/twilio", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitWebhook))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Post("/voice", h.TwilioVoice)
		r.Post("/gather", h.TwilioGather)
		r.Post("/call-status", h.TwilioCallStatus)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/cameras", h.Cameras)
		r.Get("/cameras/{id}/reasoning", h.CameraReasoning)
		r.With(mw.RateLimitCustom(RateLimitFrames)).Post("/cameras/{id}/frames", h.CameraFrames)

		r.Get("/threats", h.Threats)
		r.Get("/threats/{id}", h.Threat)
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitCustom(RateLimitWrite))
			r.Post("/threats", h.CreateThreat)
			r.Post("/threats/{id}/resolve", h.ResolveThreat)
			r.Post("/community", h.RegisterMember)
			r.Post("/scenarios/{name}/start", h.StartScenario)
			r.Post("/scenarios/stop", h.StopScenario)
		})

		r.Get("/patterns", h.Patterns)
		r.Get("/entities", h.Entities)
		r.Get("/community", h.Community)
		r.Get("/scenarios", h.Scenarios)
	})

	r.With(mw.RateLimitCustom(RateLimitWebSocket)).Get("/ws", h.WebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", h.Root)

	return r
}
