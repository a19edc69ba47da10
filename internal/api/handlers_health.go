// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/store"
)

// HealthStatus summarizes the process.
type HealthStatus struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	Cameras          int     `json:"cameras"`
	Agents           int     `json:"agents"`
	ActiveThreats    int     `json:"active_threats"`
	Patterns         int     `json:"patterns"`
	WebSocketClients int     `json:"websocket_clients"`
	TwilioConfigured bool    `json:"twilio_configured"`
	NATSEnabled      bool    `json:"nats_enabled"`
	Scenario         string  `json:"scenario,omitempty"`
}

// Health reports component state. A store failure degrades the status but
// still answers 200 so dashboards keep rendering.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := HealthStatus{
		Status:           "healthy",
		Version:          h.opts.Version,
		UptimeSeconds:    time.Since(h.startTime).Seconds(),
		Cameras:          len(h.cameras.Cameras()),
		Agents:           h.agents.Len(),
		Patterns:         len(h.monitor.Patterns()),
		TwilioConfigured: h.opts.TwilioConfigured,
		NATSEnabled:      h.opts.NATSEnabled,
	}
	if active, err := h.monitor.Threats(r.Context(), store.ListFilter{Status: models.ThreatActive}); err != nil {
		st.Status = "degraded"
	} else {
		st.ActiveThreats = len(active)
	}
	if h.wsHub != nil {
		st.WebSocketClients = h.wsHub.GetClientCount()
	}
	if h.scenarios != nil {
		st.Scenario = h.scenarios.Active()
	}
	respondData(w, http.StatusOK, st, nil)
}

// HealthLive answers while the process serves requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, nil)
}

// HealthReady answers 503 until the threat store responds.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.monitor.Threats(r.Context(), store.ListFilter{Limit: 1}); err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Threat store unavailable", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, nil)
}

// Root identifies the service.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{
		"name":        "Ursa",
		"version":     h.opts.Version,
		"status":      "operational",
		"agents":      h.agents.Len(),
		"description": "Neighborhood camera threat detection and dispatch",
	}, nil)
}
