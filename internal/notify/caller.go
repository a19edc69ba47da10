// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/message"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// SimulatedCallNote marks call records that never reached Twilio.
const SimulatedCallNote = "Twilio not configured - this is a simulation"

// CallPlacer is the voice transport.
type CallPlacer interface {
	PlaceCall(ctx context.Context, to, message string) (models.CallRecord, error)
}

// Numbers maps each authority to a phone line. Empty entries use Police.
type Numbers struct {
	Police         string
	AnimalControl  string
	FireDepartment string
	Wildlife       string
}

func (n Numbers) lookup(r models.Recipient) string {
	var num string
	switch r {
	case models.RecipientAnimalControl:
		num = n.AnimalControl
	case models.RecipientFireDepartment:
		num = n.FireDepartment
	case models.RecipientWildlife:
		num = n.Wildlife
	}
	if num == "" {
		return n.Police
	}
	return num
}

// Caller reports escalated threats to authorities.
type Caller struct {
	transport CallPlacer
	renderer  message.Renderer
	numbers   Numbers
	now       func() time.Time
}

// NewCaller creates a Caller.
func NewCaller(transport CallPlacer, renderer message.Renderer, numbers Numbers) *Caller {
	return &Caller{transport: transport, renderer: renderer, numbers: numbers, now: time.Now}
}

// CallAuthority calls recipient about t. It always returns a record: a
// simulated one when the transport is unavailable, a cancelled one when ctx
// ends before the call is placed and a failed one when the call errors.
func (c *Caller) CallAuthority(ctx context.Context, t *models.Threat, a models.Analysis, nearby []models.NearbyCamera, recipient models.Recipient) models.CallRecord {
	to := c.numbers.lookup(recipient)
	msg := c.renderer.CallMessage(ctx, message.Input{
		Threat:        t,
		Analysis:      a,
		NearbyCameras: len(nearby),
		Recipient:     recipient,
	})
	log := logging.Ctx(ctx).With().Str("threat_id", t.ID).Str("recipient", string(recipient)).Str("to", to).Logger()

	var rec models.CallRecord
	err := ctx.Err()
	if err == nil {
		rec, err = c.transport.PlaceCall(ctx, to, msg)
	}
	switch {
	case err == nil:
		log.Info().Str("call_sid", rec.CallSID).Str("status", rec.Status).Msg("Authority called")
	case isCancellation(err):
		log.Warn().Err(err).Msg("Authority call cancelled before it was placed")
		rec = models.CallRecord{Status: models.CallCancelled, To: to, Message: msg, Note: err.Error()}
	case errors.Is(err, ErrServiceUnavailable):
		log.Info().Str("message", msg).Msg("Simulated authority call")
		rec = models.CallRecord{Status: models.CallSimulated, To: to, Message: msg, Note: SimulatedCallNote}
	default:
		log.Error().Err(err).Msg("Authority call failed")
		ts := c.now()
		rec = models.CallRecord{Status: models.CallFailed, To: to, Message: msg, Timestamp: &ts, Note: err.Error()}
	}

	rec.Recipient = string(recipient)
	metrics.RecordCall(string(recipient), rec.Status)
	return rec
}

// isCancellation reports whether err is a context error, meaning the
// carrier was never reached.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
