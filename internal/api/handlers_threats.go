// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/store"
)

// maxThreatList caps ?limit on the threat list.
const maxThreatList = 1000

// Threats lists the threat log. ?status filters by status and ?limit keeps
// the most recent entries.
func (h *Handler) Threats(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.ThreatActive, models.ThreatResolved:
	default:
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "status must be active or resolved", nil)
		return
	}
	limit := getIntParam(r, "limit", 0)
	if limit < 0 || limit > maxThreatList {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "limit must be between 0 and 1000", nil)
		return
	}

	threats, err := h.monitor.Threats(r.Context(), store.ListFilter{Status: status, Limit: limit})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list threats", err)
		return
	}
	respondList(w, threats)
}

// Threat returns one threat.
func (h *Handler) Threat(w http.ResponseWriter, r *http.Request) {
	t, err := h.monitor.Threat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, t, nil)
}

// CreateThreat records a manual threat report and dispatches it.
func (h *Handler) CreateThreat(w http.ResponseWriter, r *http.Request) {
	var req CreateThreatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t := &models.Threat{
		Type:       req.Type,
		CameraID:   req.CameraID,
		Confidence: req.Confidence,
	}
	if req.Details != nil {
		t.Details = *req.Details
	}
	switch {
	case req.Location != nil:
		t.Location = models.Location{Lat: req.Location.Lat, Lng: req.Location.Lng}
	default:
		cam, ok := h.cameras.Get(req.CameraID)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "location is required for a camera outside the directory", nil)
			return
		}
		t.Location = cam.Location()
	}

	stored, err := h.monitor.AddThreat(r.Context(), t, nil)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to record threat", err)
		return
	}
	respondData(w, http.StatusCreated, stored, nil)
}

// ResolveThreat marks a threat resolved.
func (h *Handler) ResolveThreat(w http.ResponseWriter, r *http.Request) {
	t, err := h.monitor.ResolveThreat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, t, nil)
}

// Patterns lists behavior patterns.
func (h *Handler) Patterns(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.monitor.Patterns())
}

// Entities lists tracked entities.
func (h *Handler) Entities(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.monitor.Entities())
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Threat not found", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Threat store unavailable", err)
}
