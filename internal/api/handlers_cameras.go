// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ursa/internal/agent"
	"github.com/tomtom215/ursa/internal/detection"
)

// Cameras lists the camera directory.
func (h *Handler) Cameras(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.cameras.Cameras())
}

// CameraReasoning returns the camera agent's reasoning log, oldest first.
func (h *Handler) CameraReasoning(w http.ResponseWriter, r *http.Request) {
	a, ok := h.agentFor(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	respondList(w, a.Reasoning())
}

// CameraFrames runs one analyzed frame through the camera agent and, when
// it detects something, commits the detection as a threat.
func (h *Handler) CameraFrames(w http.ResponseWriter, r *http.Request) {
	a, ok := h.agentFor(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req FrameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ev, err := a.Ingest(r.Context(), req.Signal, req.objects())
	if err != nil {
		var ae *detection.AnalysisError
		if errors.As(err, &ae) {
			respondError(w, http.StatusUnprocessableEntity, ErrCodeBadRequest, ae.Error(), nil)
			return
		}
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Frame analysis interrupted", err)
		return
	}
	if ev == nil {
		respondData(w, http.StatusOK, FrameResponse{Detected: false}, nil)
		return
	}

	resp := FrameResponse{Detected: true}
	if entry, ok := a.LastReasoning(); ok {
		resp.Reasoning = &entry
	}
	resp.Threat, err = h.monitor.CommitDetection(r.Context(), ev, resp.Reasoning)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to record detection", err)
		return
	}
	respondData(w, http.StatusCreated, resp, nil)
}

func (h *Handler) agentFor(w http.ResponseWriter, cameraID string) (*agent.Agent, bool) {
	a, err := h.agents.Get(cameraID)
	if err != nil {
		if errors.Is(err, agent.ErrUnknownAgent) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Camera not found", nil)
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Camera agent unavailable", err)
		return nil, false
	}
	return a, true
}
