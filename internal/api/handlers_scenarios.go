// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ursa/internal/scenario"
)

// ScenarioStatus describes the runner's state.
type ScenarioStatus struct {
	Status    string   `json:"status"`
	Scenario  string   `json:"scenario,omitempty"`
	Available []string `json:"available,omitempty"`
}

// Scenarios lists available scenarios and the running one.
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	st := ScenarioStatus{Status: "idle", Available: scenario.Names()}
	if h.scenarios != nil {
		if name := h.scenarios.Active(); name != "" {
			st.Status, st.Scenario = "running", name
		}
	}
	respondData(w, http.StatusOK, st, nil)
}

// StartScenario plays a scenario in the background.
func (h *Handler) StartScenario(w http.ResponseWriter, r *http.Request) {
	if h.scenarios == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Demo scenarios are disabled", nil)
		return
	}
	name := chi.URLParam(r, "name")
	switch err := h.scenarios.Start(name); {
	case err == nil:
		respondData(w, http.StatusAccepted, ScenarioStatus{Status: "started", Scenario: name}, nil)
	case errors.Is(err, scenario.ErrUnknownScenario):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Unknown scenario", nil)
	case errors.Is(err, scenario.ErrAlreadyRunning):
		respondError(w, http.StatusConflict, ErrCodeConflict, "A scenario is already running", nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to start scenario", err)
	}
}

// StopScenario stops the running scenario. Stopping when idle succeeds.
func (h *Handler) StopScenario(w http.ResponseWriter, r *http.Request) {
	if h.scenarios == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Demo scenarios are disabled", nil)
		return
	}
	name, _ := h.scenarios.Stop()
	respondData(w, http.StatusOK, ScenarioStatus{Status: "stopped", Scenario: name}, nil)
}
