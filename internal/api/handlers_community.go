// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/validation"
)

// Community lists subscribers.
func (h *Handler) Community(w http.ResponseWriter, r *http.Request) {
	respondList(w, h.community.Members())
}

// RegisterMember adds or replaces a subscriber keyed by phone number.
func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.community.Add(models.CommunityMember{Phone: req.Phone, Lat: req.Lat, Lng: req.Lng, Name: req.Name})
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.Is(err, directory.ErrInvalidPhone):
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "phone must be a valid phone number", nil)
		case errors.As(err, &verr):
			respondValidation(w, verr)
		default:
			respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Member location is invalid", err)
		}
		return
	}

	logging.Ctx(r.Context()).Info().Str("name", sanitizeLogValue(m.Name)).Msg("Community member registered")
	respondData(w, http.StatusCreated, m, nil)
}
