// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/ursa/internal/geo"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/message"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// DefaultCommunityRadiusMiles is how far community alerts reach.
const DefaultCommunityRadiusMiles = 50.0

// ErrInvalidIncidentLocation is the error text recorded when a threat has
// no usable coordinates.
const ErrInvalidIncidentLocation = "Invalid incident location"

// SMSSender is the text transport.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (models.SMSRecord, error)
}

// MemberFinder finds subscribers near a point.
type MemberFinder interface {
	Within(loc models.Location, radiusMiles float64) ([]geo.Hit[models.CommunityMember], error)
}

// Community texts nearby subscribers.
type Community struct {
	sms      SMSSender
	members  MemberFinder
	renderer message.Renderer
	radius   float64
	now      func() time.Time
}

// NewCommunity creates a notifier reaching members within radiusMiles.
func NewCommunity(sms SMSSender, members MemberFinder, renderer message.Renderer, radiusMiles float64) *Community {
	if radiusMiles <= 0 {
		radiusMiles = DefaultCommunityRadiusMiles
	}
	return &Community{sms: sms, members: members, renderer: renderer, radius: radiusMiles, now: time.Now}
}

// NotifyCommunity sends one SMS per member in range. Members whose send
// fails stay in the list with status failed and are not counted. When ctx
// ends the pass stops; if nothing was sent by then the record carries
// models.NotificationCancelled.
func (n *Community) NotifyCommunity(ctx context.Context, t *models.Threat, a models.Analysis, nearby []models.NearbyCamera) models.NotificationRecord {
	rec := models.NotificationRecord{
		IncidentLocation: t.Location,
		Notified:         []models.NotifiedMember{},
		Timestamp:        n.now(),
	}

	hits, err := n.members.Within(t.Location, n.radius)
	if err != nil {
		rec.Error = ErrInvalidIncidentLocation
		return rec
	}

	rec.Message = n.renderer.CommunityMessage(ctx, message.Input{
		Threat:        t,
		Analysis:      a,
		NearbyCameras: len(nearby),
		Recipient:     models.RecipientFor(a.Category),
	})

	for _, h := range hits {
		status := models.CallCancelled
		if ctx.Err() == nil {
			status = n.send(ctx, h.Value.Phone, rec.Message)
		}
		if status == models.CallCancelled {
			logging.Ctx(ctx).Warn().Str("threat_id", t.ID).Int("remaining", len(hits)-len(rec.Notified)).Msg("Community notification interrupted")
			break
		}
		rec.Notified = append(rec.Notified, models.NotifiedMember{
			PhoneNumber:   h.Value.Phone,
			Name:          h.Value.Name,
			DistanceMiles: h.DistanceMiles,
			Status:        status,
		})
		if status != models.CallFailed {
			rec.NotifiedCount++
		}
	}

	if len(rec.Notified) == 0 && ctx.Err() != nil {
		rec.Error = models.NotificationCancelled
		return rec
	}

	logging.Ctx(ctx).Info().Str("threat_id", t.ID).Int("notified", rec.NotifiedCount).Int("in_range", len(hits)).Msg("Community notified")
	return rec
}

func (n *Community) send(ctx context.Context, phone, body string) string {
	sms, err := n.sms.SendSMS(ctx, phone, body)
	status := sms.Status
	switch {
	case err == nil:
		if status == "" {
			status = "unknown"
		}
	case isCancellation(err):
		return models.CallCancelled
	case errors.Is(err, ErrServiceUnavailable):
		status = models.CallSimulated
	default:
		logging.Ctx(ctx).Error().Err(err).Str("to", phone).Msg("SMS send failed")
		status = models.CallFailed
	}
	metrics.RecordSMS(status)
	return status
}
