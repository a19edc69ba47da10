// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package metrics declares Ursa's Prometheus collectors.

Collectors are package-level promauto variables registered with the default
registry and exported on /metrics through promhttp. Callers use the Record*
helpers rather than touching label values directly so label sets stay
consistent.

Families:

  - Detection: frames analyzed, analysis failures, fusion scores, detections by type
  - Threats: threats committed by severity, patterns, tracked entities
  - Dispatch: queue depth, processing duration, duplicates skipped, overflow spawns
  - Outbound: calls and SMS by recipient and status, message renderer fallbacks
  - Circuit breaker: state, requests, consecutive failures, transitions
  - Event bus: events published and consumed by topic
  - API and WebSocket: request totals, latency, in-flight, connected clients
*/
package metrics
