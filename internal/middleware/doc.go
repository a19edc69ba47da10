// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package middleware holds the HTTP middleware shared by every Ursa route.

  - RequestID: accepts a sane inbound X-Request-ID or mints a UUID, echoes
    it in the response and seeds the logging context with request and
    correlation ids.
  - PrometheusMetrics: counts requests and observes latency, labelled by
    the chi route pattern so /api/v1/threats/{id} stays one series.

Both are written as func(http.HandlerFunc) http.HandlerFunc and adapted to
chi in the api package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
*/
package middleware
