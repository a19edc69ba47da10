// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package agent runs one detection agent per camera. An agent owns its
// analyzer history, stamps detections with the camera position and keeps a
// short log of the reasoning behind each detection.
package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/models"
)

// MaxReasoningEntries bounds each agent's reasoning log.
const MaxReasoningEntries = 20

// Reasoning steps.
const (
	StepDetection   = "detection"
	StepAIDetection = "ai_detection"
)

// ErrInvalidConfidence is returned by Simulate for confidences outside [0, 1].
var ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

// Option customizes an Agent.
type Option func(*options)

type options struct {
	now    func() time.Time
	warmup int
	fire   detection.FireProfile
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithWarmup sets the analyzer warm-up sample count.
func WithWarmup(samples int) Option {
	return func(o *options) { o.warmup = samples }
}

// Agent analyzes frames for a single camera. Calls are serialized so the
// analyzer history has a single producer.
type Agent struct {
	camera   models.Camera
	profile  detection.Profile
	analyzer *detection.Analyzer
	now      func() time.Time

	mu        sync.Mutex
	reasoning []models.ReasoningEntry
	last      *models.DetectionEvent
}

// New creates an agent for cam scoring with profile p.
func New(cam models.Camera, p detection.Profile, opts ...Option) *Agent {
	o := options{now: time.Now, fire: detection.DefaultFireProfile()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Agent{
		camera:  cam,
		profile: p,
		analyzer: detection.NewAnalyzer(cam.ID, p, o.fire,
			detection.WithClock(o.now),
			detection.WithWarmup(o.warmup),
		),
		now:       o.now,
		reasoning: make([]models.ReasoningEntry, 0, MaxReasoningEntries),
	}
}

// CameraID returns the camera this agent watches.
func (a *Agent) CameraID() string {
	return a.camera.ID
}

// Ingest evaluates one analyzed frame. It returns nil when nothing was
// detected; errors come from the analyzer and leave the log untouched.
func (a *Agent) Ingest(ctx context.Context, signal detection.FrameSignal, objects []detection.ObjectDetection) (*models.DetectionEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ev, err := a.analyzer.Evaluate(ctx, signal, objects)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("camera_id", a.camera.ID).Msg("Frame analysis failed")
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}

	loc := a.camera.Location()
	ev.Location = &loc
	a.remember(ev, a.aiReasoning(ev))
	return cloneEvent(ev), nil
}

// Simulate produces a scripted detection for activity with canned details.
// It bypasses the analyzer and is used by demo scenarios and manual triggers.
func (a *Agent) Simulate(ctx context.Context, activity models.ActivityType, confidence float64) (*models.DetectionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfidence, confidence)
	}

	loc := a.camera.Location()
	ev := &models.DetectionEvent{
		CameraID:     a.camera.ID,
		ActivityType: activity,
		Confidence:   confidence,
		Timestamp:    a.now(),
		Behavior:     string(activity),
		Location:     &loc,
		Details:      CannedDetails(activity),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.remember(ev, a.simulatedReasoning(ev))
	return cloneEvent(ev), nil
}

// remember records ev and its reasoning. Callers hold a.mu.
func (a *Agent) remember(ev *models.DetectionEvent, entry models.ReasoningEntry) {
	a.last = ev
	a.reasoning = append(a.reasoning, entry)
	if over := len(a.reasoning) - MaxReasoningEntries; over > 0 {
		a.reasoning = append(a.reasoning[:0], a.reasoning[over:]...)
	}
}

// Reasoning returns the log, oldest first.
func (a *Agent) Reasoning() []models.ReasoningEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.ReasoningEntry, len(a.reasoning))
	for i, e := range a.reasoning {
		e.Evidence = append([]string(nil), e.Evidence...)
		out[i] = e
	}
	return out
}

// LastReasoning returns the newest log entry.
func (a *Agent) LastReasoning() (models.ReasoningEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.reasoning) == 0 {
		return models.ReasoningEntry{}, false
	}
	e := a.reasoning[len(a.reasoning)-1]
	e.Evidence = append([]string(nil), e.Evidence...)
	return e, true
}

// LastDetection returns the most recent detection, or nil.
func (a *Agent) LastDetection() *models.DetectionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneEvent(a.last)
}

func (a *Agent) simulatedReasoning(ev *models.DetectionEvent) models.ReasoningEntry {
	return models.ReasoningEntry{
		Timestamp: a.now(),
		CameraID:  a.camera.ID,
		Step:      StepDetection,
		Reasoning: fmt.Sprintf("Detected %s with %s confidence", ev.ActivityType, percent(ev.Confidence)),
		Evidence: []string{
			fmt.Sprintf("Motion detected at %.4f, %.4f", ev.Location.Lat, ev.Location.Lng),
			fmt.Sprintf("Behavior pattern matches: %s", ev.Behavior),
			fmt.Sprintf("Confidence threshold exceeded: %s", percent(ev.Confidence)),
		},
		Conclusion: fmt.Sprintf("Threat identified: %s", ev.ActivityType),
	}
}

func (a *Agent) aiReasoning(ev *models.DetectionEvent) models.ReasoningEntry {
	m := ev.Details.AIMetrics
	return models.ReasoningEntry{
		Timestamp: a.now(),
		CameraID:  a.camera.ID,
		Step:      StepAIDetection,
		Reasoning: fmt.Sprintf("AI analyzed video frame: detected %s with %s confidence", ev.ActivityType, percent(ev.Confidence)),
		Evidence: []string{
			"Computer vision analysis completed",
			fmt.Sprintf("Edge density: %.2f%%", m["edge_density"]*100),
			fmt.Sprintf("Motion intensity: %.2f", m["motion_intensity"]),
			fmt.Sprintf("Objects detected: %.0f", m["objects_detected"]),
			fmt.Sprintf("Scoring profile: %s", a.profile.Domain),
			fmt.Sprintf("Confidence: %s", percent(ev.Confidence)),
		},
		Conclusion: fmt.Sprintf("AI threat identified: %s", ev.ActivityType),
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func cloneEvent(ev *models.DetectionEvent) *models.DetectionEvent {
	if ev == nil {
		return nil
	}
	c := *ev
	if ev.Location != nil {
		loc := *ev.Location
		c.Location = &loc
	}
	if ev.Details.AIMetrics != nil {
		c.Details.AIMetrics = make(map[string]float64, len(ev.Details.AIMetrics))
		for k, v := range ev.Details.AIMetrics {
			c.Details.AIMetrics[k] = v
		}
	}
	return &c
}
