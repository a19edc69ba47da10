// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/ursa/internal/correlation"
	"github.com/tomtom215/ursa/internal/eventbus"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/store"
)

// Monitor errors.
var (
	ErrNilThreat     = errors.New("threat is nil")
	ErrNilDetection  = errors.New("detection is nil")
	ErrUnknownCamera = errors.New("unknown camera")
)

// Dispatcher accepts threats for severity analysis and delivery.
type Dispatcher interface {
	Submit(t *models.Threat) bool
}

// Broadcaster pushes updates to live clients.
type Broadcaster interface {
	BroadcastDetection(t *models.Threat, reasoning *models.ReasoningEntry)
	BroadcastThreatUpdated(t *models.Threat)
	BroadcastPattern(p *models.Pattern)
	BroadcastEntity(e models.TrackedEntity)
}

// Publisher sends events to the bus.
type Publisher interface {
	PublishDetection(ctx context.Context, ev models.DetectionEvent) error
	PublishThreat(ctx context.Context, t *models.Threat) error
}

// Subscriber registers bus consumers.
type Subscriber interface {
	OnDetection(name string, fn eventbus.DetectionHandler)
	OnThreat(name string, fn eventbus.ThreatHandler)
}

// CameraDirectory resolves cameras and records their activity.
type CameraDirectory interface {
	Get(id string) (models.Camera, bool)
	Touch(id string, at time.Time) error
}

// Deps are the monitor's collaborators. Hub, Bus, Correlator, Tracker,
// Seen and Now are optional.
type Deps struct {
	Store      store.ThreatStore
	Cameras    CameraDirectory
	Dispatcher Dispatcher
	Correlator *correlation.Correlator
	Tracker    *correlation.Tracker
	Hub        Broadcaster
	Bus        Publisher
	Seen       *eventbus.Deduplicator
	Now        func() time.Time
}

// Monitor records threats and fans them out.
type Monitor struct {
	store      store.ThreatStore
	cameras    CameraDirectory
	dispatcher Dispatcher
	correlator *correlation.Correlator
	tracker    *correlation.Tracker
	hub        Broadcaster
	bus        Publisher
	seen       *eventbus.Deduplicator
	now        func() time.Time
}

// New creates a monitor. Store, Cameras and Dispatcher are required.
func New(deps Deps) (*Monitor, error) {
	if deps.Store == nil || deps.Cameras == nil || deps.Dispatcher == nil {
		return nil, errors.New("monitor requires a store, a camera directory and a dispatcher")
	}
	m := &Monitor{
		store:      deps.Store,
		cameras:    deps.Cameras,
		dispatcher: deps.Dispatcher,
		correlator: deps.Correlator,
		tracker:    deps.Tracker,
		hub:        deps.Hub,
		bus:        deps.Bus,
		seen:       deps.Seen,
		now:        deps.Now,
	}
	if m.tracker == nil {
		m.tracker = correlation.NewTracker()
	}
	if m.hub == nil {
		m.hub = nopBroadcaster{}
	}
	if m.seen == nil {
		m.seen = eventbus.NewDeduplicator(0, 0)
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

// Subscribe registers the monitor's consumers on sub.
func (m *Monitor) Subscribe(sub Subscriber) {
	sub.OnDetection("pattern-correlator", m.HandleDetection)
	sub.OnThreat("camera-activity", m.HandleThreat)
}

// AddThreat records t and hands it to dispatch and live clients. The id is
// always replaced and the status set to active; a zero timestamp becomes
// now. The returned threat is a copy of what was stored.
func (m *Monitor) AddThreat(ctx context.Context, t *models.Threat, reasoning *models.ReasoningEntry) (*models.Threat, error) {
	if t == nil {
		return nil, ErrNilThreat
	}

	t.ID = uuid.New().String()
	t.Status = models.ThreatActive
	if t.Timestamp.IsZero() {
		t.Timestamp = m.now()
	}

	var entity *models.TrackedEntity
	if t.Type == string(models.ActivityLostPet) {
		e := m.tracker.Track(t)
		entity = &e
	}

	if err := m.store.Append(ctx, t); err != nil {
		return nil, fmt.Errorf("append threat %s: %w", t.ID, err)
	}

	log := logging.Ctx(ctx)
	log.Info().
		Str("threat_id", t.ID).
		Str("type", t.Type).
		Str("camera_id", t.CameraID).
		Float64("confidence", t.Confidence).
		Msg("Threat recorded")

	if entity != nil {
		m.hub.BroadcastEntity(*entity)
	}
	m.dispatcher.Submit(t)
	m.hub.BroadcastDetection(t.Clone(), reasoning)

	if m.bus != nil {
		err := m.bus.PublishThreat(ctx, t)
		if err == nil {
			return t.Clone(), nil
		}
		log.Warn().Err(err).Str("threat_id", t.ID).Msg("Threat publish failed, handling inline")
	}
	_ = m.HandleThreat(ctx, t.Clone())
	return t.Clone(), nil
}

// CommitDetection records ev as a threat located at ev.Location, or at its
// camera when the detection carries no position.
func (m *Monitor) CommitDetection(ctx context.Context, ev *models.DetectionEvent, reasoning *models.ReasoningEntry) (*models.Threat, error) {
	if ev == nil {
		return nil, ErrNilDetection
	}
	cam, ok := m.cameras.Get(ev.CameraID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCamera, ev.CameraID)
	}

	loc := cam.Location()
	if ev.Location != nil {
		loc = *ev.Location
	}
	t := &models.Threat{
		Type:       string(ev.ActivityType),
		CameraID:   ev.CameraID,
		Location:   loc,
		Confidence: ev.Confidence,
		Timestamp:  ev.Timestamp,
		Details:    ev.Details,
	}
	if ev.Details.AIMetrics != nil {
		t.Details.AIMetrics = make(map[string]float64, len(ev.Details.AIMetrics))
		for k, v := range ev.Details.AIMetrics {
			t.Details.AIMetrics[k] = v
		}
	}

	stored, err := m.AddThreat(ctx, t, reasoning)
	if err != nil {
		return nil, err
	}

	event := *ev
	event.EventID = stored.ID
	event.Location = &loc
	if m.bus != nil {
		err := m.bus.PublishDetection(ctx, event)
		if err == nil {
			return stored, nil
		}
		logging.Ctx(ctx).Warn().Err(err).Str("camera_id", ev.CameraID).Msg("Detection publish failed, correlating inline")
	}
	_ = m.HandleDetection(ctx, event)
	return stored, nil
}

// HandleDetection folds ev into the pattern list and broadcasts patterns
// that have repeated. A detection whose EventID was already handled is
// skipped.
func (m *Monitor) HandleDetection(ctx context.Context, ev models.DetectionEvent) error {
	if m.correlator == nil {
		return nil
	}
	if m.seen.IsDuplicate(ev.EventID) {
		metrics.RecordPatternDuplicate()
		logging.Ctx(ctx).Debug().Str("event_id", ev.EventID).Str("camera_id", ev.CameraID).Msg("Skipping redelivered detection")
		return nil
	}
	p, merged := m.correlator.Correlate(ev)
	metrics.RecordPattern(merged)

	if p.Count >= correlation.MinPatternCount {
		entry := logging.Ctx(ctx).Info().
			Str("pattern_id", p.ID).
			Str("behavior", p.Behavior).
			Int("count", p.Count)
		if p.PredictedNext != nil {
			entry = entry.Str("predicted_camera", p.PredictedNext.CameraID)
		}
		entry.Msg("Pattern detected")
		m.hub.BroadcastPattern(p)
	}
	return nil
}

// HandleThreat stamps the reporting camera's last activity. Threats from
// cameras outside the directory, such as manual reports, are ignored.
func (m *Monitor) HandleThreat(ctx context.Context, t *models.Threat) error {
	if t == nil {
		return nil
	}
	if err := m.cameras.Touch(t.CameraID, t.Timestamp); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("threat_id", t.ID).Msg("Skipping camera activity")
	}
	return nil
}

// ResolveThreat marks a threat resolved. Resolving twice is a no-op.
func (m *Monitor) ResolveThreat(ctx context.Context, id string) (*models.Threat, error) {
	changed := false
	t, err := m.store.Update(ctx, id, func(t *models.Threat) error {
		if t.Status != models.ThreatResolved {
			t.Status = models.ThreatResolved
			changed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		logging.Ctx(ctx).Info().Str("threat_id", id).Msg("Threat resolved")
		m.hub.BroadcastThreatUpdated(t.Clone())
	}
	return t, nil
}

// Threat returns one stored threat.
func (m *Monitor) Threat(ctx context.Context, id string) (*models.Threat, error) {
	return m.store.Get(ctx, id)
}

// Threats lists stored threats in append order.
func (m *Monitor) Threats(ctx context.Context, f store.ListFilter) ([]*models.Threat, error) {
	return m.store.List(ctx, f)
}

// Patterns returns pattern snapshots, or none without a correlator.
func (m *Monitor) Patterns() []*models.Pattern {
	if m.correlator == nil {
		return []*models.Pattern{}
	}
	return m.correlator.Patterns()
}

// Entities returns tracked entity snapshots.
func (m *Monitor) Entities() []models.TrackedEntity {
	return m.tracker.Entities()
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastDetection(*models.Threat, *models.ReasoningEntry) {}
func (nopBroadcaster) BroadcastThreatUpdated(*models.Threat)                     {}
func (nopBroadcaster) BroadcastPattern(*models.Pattern)                          {}
func (nopBroadcaster) BroadcastEntity(models.TrackedEntity)                      {}
