// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/ursa/internal/geo"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// Defaults.
const (
	DefaultQueueSize         = 256
	DefaultCameraRadiusMiles = 5.0
)

// Analyzer assesses a threat.
type Analyzer interface {
	Analyze(t *models.Threat) models.Analysis
}

// CameraFinder finds cameras around an incident.
type CameraFinder interface {
	Nearby(loc models.Location, radiusMiles float64) ([]models.NearbyCamera, error)
}

// AuthorityCaller reports a threat to an authority.
type AuthorityCaller interface {
	CallAuthority(ctx context.Context, t *models.Threat, a models.Analysis, nearby []models.NearbyCamera, recipient models.Recipient) models.CallRecord
}

// CommunityNotifier alerts subscribers near a threat.
type CommunityNotifier interface {
	NotifyCommunity(ctx context.Context, t *models.Threat, a models.Analysis, nearby []models.NearbyCamera) models.NotificationRecord
}

// ThreatUpdater persists changes to a stored threat.
type ThreatUpdater interface {
	Update(ctx context.Context, id string, fn func(*models.Threat) error) (*models.Threat, error)
}

// Config tunes the coordinator.
type Config struct {
	QueueSize         int
	CameraRadiusMiles float64
}

// Deps are the coordinator's collaborators. OnProcessed is optional and
// receives a copy of every threat after its actions complete.
type Deps struct {
	Analyzer    Analyzer
	Cameras     CameraFinder
	Caller      AuthorityCaller
	Community   CommunityNotifier
	Store       ThreatUpdater
	Ledger      *Ledger
	OnProcessed func(*models.Threat)
}

// Coordinator owns the dispatch queue and worker.
type Coordinator struct {
	deps   Deps
	radius float64
	queue  chan *models.Threat

	mu      sync.RWMutex
	baseCtx context.Context

	overflow sync.WaitGroup
}

// NewCoordinator builds a coordinator. A nil Ledger gets a fresh one.
func NewCoordinator(cfg Config, deps Deps) *Coordinator {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.CameraRadiusMiles <= 0 {
		cfg.CameraRadiusMiles = DefaultCameraRadiusMiles
	}
	if deps.Ledger == nil {
		deps.Ledger = NewLedger()
	}
	return &Coordinator{
		deps:    deps,
		radius:  cfg.CameraRadiusMiles,
		queue:   make(chan *models.Threat, cfg.QueueSize),
		baseCtx: context.Background(),
	}
}

// Ledger exposes the dedup ledger.
func (c *Coordinator) Ledger() *Ledger {
	return c.deps.Ledger
}

// Submit queues t for processing and never blocks. It returns false when
// the queue was full and t is being processed on a separate goroutine.
func (c *Coordinator) Submit(t *models.Threat) bool {
	job := t.Clone()
	select {
	case c.queue <- job:
		metrics.DispatchQueueDepth.Set(float64(len(c.queue)))
		return true
	default:
	}

	metrics.DispatchOverflow.Inc()
	logging.Warn().Str("threat_id", t.ID).Int("capacity", cap(c.queue)).Msg("Dispatch queue full, processing on overflow goroutine")

	c.mu.RLock()
	ctx := c.baseCtx
	c.mu.RUnlock()

	c.overflow.Add(1)
	go func() {
		defer c.overflow.Done()
		c.process(ctx, job)
	}()
	return false
}

// RunWithContext processes queued threats until ctx is cancelled.
func (c *Coordinator) RunWithContext(ctx context.Context) error {
	c.mu.Lock()
	c.baseCtx = ctx
	c.mu.Unlock()

	logging.Info().Int("capacity", cap(c.queue)).Msg("Dispatch worker started")
	defer logging.Info().Msg("Dispatch worker stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-c.queue:
			metrics.DispatchQueueDepth.Set(float64(len(c.queue)))
			c.process(ctx, t)
		}
	}
}

// WaitOverflow blocks until overflow goroutines finish.
func (c *Coordinator) WaitOverflow() {
	c.overflow.Wait()
}

// Process runs the dispatch pipeline for t synchronously. t is updated in
// place with the analysis and delivery records.
func (c *Coordinator) Process(ctx context.Context, t *models.Threat) {
	c.process(ctx, t)
}

func (c *Coordinator) process(ctx context.Context, t *models.Threat) {
	start := time.Now()
	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx).With().Str("threat_id", t.ID).Str("type", t.Type).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Dispatch panicked, threat stays recorded")
		}
		metrics.RecordDispatch(time.Since(start))
	}()

	analysis := c.deps.Analyzer.Analyze(t)
	t.Analysis = &analysis
	metrics.RecordThreatAnalyzed(string(analysis.Severity), string(analysis.Category))
	c.persist(ctx, t, func(s *models.Threat) { s.Analysis = t.Analysis })

	log.Info().
		Str("severity", string(analysis.Severity)).
		Str("category", string(analysis.Category)).
		Bool("escalate", analysis.ShouldCallPolice).
		Bool("notify", analysis.ShouldNotifyCommunity).
		Msg("Threat analyzed")

	nearby, err := c.deps.Cameras.Nearby(t.Location, c.radius)
	if err != nil {
		if !errors.Is(err, geo.ErrInvalidLocation) {
			log.Warn().Err(err).Msg("Nearby camera lookup failed")
		}
		nearby = []models.NearbyCamera{}
	}

	if analysis.ShouldCallPolice && c.claim(ctx, ActionCall, t.ID) {
		recipient := models.RecipientFor(analysis.Category)
		rec := c.deps.Caller.CallAuthority(ctx, t, analysis, nearby, recipient)
		if rec.Status == models.CallCancelled {
			c.release(ctx, ActionCall, t.ID)
		} else {
			attach := func(s *models.Threat) { s.PoliceCall = &rec }
			if recipient == models.RecipientAnimalControl {
				attach = func(s *models.Threat) { s.AnimalControlCall = &rec }
			}
			attach(t)
			c.persist(ctx, t, attach)
		}
	}

	if analysis.ShouldNotifyCommunity && c.claim(ctx, ActionNotify, t.ID) {
		rec := c.deps.Community.NotifyCommunity(ctx, t, analysis, nearby)
		if rec.Error == models.NotificationCancelled {
			c.release(ctx, ActionNotify, t.ID)
		} else {
			t.CommunityNotification = &rec
			c.persist(ctx, t, func(s *models.Threat) { s.CommunityNotification = &rec })
		}
	}

	if c.deps.OnProcessed != nil {
		c.deps.OnProcessed(t.Clone())
	}
}

// claim reserves the ledger entry for action unless ctx is already done or
// the action has run before. The reservation is released if the action is
// cancelled before anything reaches the carrier.
func (c *Coordinator) claim(ctx context.Context, action, id string) bool {
	if ctx.Err() != nil {
		logging.Ctx(ctx).Debug().Str("threat_id", id).Str("action", action).Msg("Context done before dispatch action")
		return false
	}
	if !c.deps.Ledger.TryMark(LedgerKey(action, id)) {
		metrics.RecordDuplicate(action)
		logging.Ctx(ctx).Debug().Str("threat_id", id).Str("action", action).Msg("Dispatch action already performed")
		return false
	}
	return true
}

func (c *Coordinator) release(ctx context.Context, action, id string) {
	c.deps.Ledger.Release(LedgerKey(action, id))
	logging.Ctx(ctx).Info().Str("threat_id", id).Str("action", action).Msg("Dispatch action cancelled before sending, ledger entry released")
}

func (c *Coordinator) persist(ctx context.Context, t *models.Threat, apply func(*models.Threat)) {
	if c.deps.Store == nil {
		return
	}
	// Records are saved even when ctx was cancelled mid-action.
	_, err := c.deps.Store.Update(context.WithoutCancel(ctx), t.ID, func(s *models.Threat) error {
		apply(s)
		return nil
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("threat_id", t.ID).Msg("Failed to persist dispatch result")
	}
}
