// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/message"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/notify"
	"github.com/tomtom215/ursa/internal/store"
)

// maxFormBytes caps Twilio form bodies.
const maxFormBytes = 64 << 10

// TwilioVoice answers a connected call with the latest analyzed threat and
// a keypad menu.
func (h *Handler) TwilioVoice(w http.ResponseWriter, r *http.Request) {
	t := h.latestAnalyzedThreat(r.Context())
	if t == nil {
		h.say(w, "No active threats at this time.")
		return
	}

	text := spokenMessage(t)
	if text == "" && h.renderer != nil {
		text = h.renderer.CallMessage(r.Context(), message.Input{
			Threat:    t,
			Analysis:  *t.Analysis,
			Recipient: models.RecipientFor(t.Analysis.Category),
		})
	}
	if text == "" {
		h.say(w, "Unable to retrieve threat information.")
		return
	}

	twiml, err := notify.VoiceResponse(text, h.opts.GatherURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to build voice response", err)
		return
	}
	respondXML(w, twiml)
}

// TwilioGather answers the keypad menu. Digit 1 reads the latest threat's
// summary, 2 hangs up.
func (h *Handler) TwilioGather(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid form body", err)
		return
	}

	var summary string
	if t := h.latestAnalyzedThreat(r.Context()); t != nil {
		summary = t.Analysis.ResponseSummary
	}
	twiml, err := notify.GatherResponse(r.PostFormValue("Digits"), summary)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to build gather response", err)
		return
	}
	respondXML(w, twiml)
}

// TwilioCallStatus logs carrier status callbacks.
func (h *Handler) TwilioCallStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid form body", err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("call_sid", sanitizeLogValue(r.PostFormValue("CallSid"))).
		Str("call_status", sanitizeLogValue(r.PostFormValue("CallStatus"))).
		Msg("Call status update")
	respondData(w, http.StatusOK, map[string]string{"status": "received"}, nil)
}

func (h *Handler) say(w http.ResponseWriter, text string) {
	twiml, err := notify.SayResponse(text)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to build voice response", err)
		return
	}
	respondXML(w, twiml)
}

// latestAnalyzedThreat is the most recent active threat dispatch has
// already analyzed.
func (h *Handler) latestAnalyzedThreat(ctx context.Context) *models.Threat {
	threats, err := h.monitor.Threats(ctx, store.ListFilter{Status: models.ThreatActive})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Listing threats for voice webhook failed")
		return nil
	}
	for i := len(threats) - 1; i >= 0; i-- {
		if threats[i].Analysis != nil {
			return threats[i]
		}
	}
	return nil
}

// spokenMessage reuses the wording already placed on the outbound call.
func spokenMessage(t *models.Threat) string {
	switch {
	case t.PoliceCall != nil && t.PoliceCall.Message != "":
		return t.PoliceCall.Message
	case t.AnimalControlCall != nil && t.AnimalControlCall.Message != "":
		return t.AnimalControlCall.Message
	default:
		return ""
	}
}
