// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package correlation

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/ursa/internal/models"
)

// PatternWindow bounds how far an event may be from a pattern's anchor and
// still merge into it.
const PatternWindow = time.Hour

// MinPatternCount is the occurrence count needed before predicting.
const MinPatternCount = 2

// CameraLister supplies the camera directory in a stable order.
type CameraLister interface {
	Cameras() []models.Camera
}

// Correlator keeps the pattern list.
type Correlator struct {
	cameras CameraLister

	mu       sync.Mutex
	patterns []*models.Pattern
}

// NewCorrelator creates a correlator predicting over cameras.
func NewCorrelator(cameras CameraLister) *Correlator {
	return &Correlator{cameras: cameras}
}

// Correlate merges event into the first pattern with the same behavior
// anchored within PatternWindow of the event, or starts a new pattern
// anchored at the event. The returned pattern is a snapshot that carries a
// fresh prediction when one is available. merged reports whether an
// existing pattern absorbed the event.
func (c *Correlator) Correlate(event models.DetectionEvent) (snapshot *models.Pattern, merged bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.patterns {
		if p.Behavior != event.Behavior || !withinWindow(p.Timestamp, event.Timestamp) {
			continue
		}
		p.Occurrences = append(p.Occurrences, event)
		p.Count++
		if pred, ok := c.predict(p); ok {
			p.PredictedNext = pred
		}
		return clonePattern(p), true
	}

	p := &models.Pattern{
		ID:          uuid.New().String(),
		Behavior:    event.Behavior,
		Occurrences: []models.DetectionEvent{event},
		Count:       1,
		Timestamp:   event.Timestamp,
	}
	c.patterns = append(c.patterns, p)
	return clonePattern(p), false
}

// PredictNext returns the next camera expected to observe the pattern's
// behavior: the first directory camera that has not seen it yet.
func (c *Correlator) PredictNext(p *models.Pattern) (*models.Prediction, bool) {
	if p == nil {
		return nil, false
	}
	return c.predict(p)
}

func (c *Correlator) predict(p *models.Pattern) (*models.Prediction, bool) {
	if p.Count < MinPatternCount || len(p.Occurrences) < MinPatternCount || c.cameras == nil {
		return nil, false
	}

	seen := make(map[string]struct{}, len(p.Occurrences))
	for i := range p.Occurrences {
		seen[p.Occurrences[i].CameraID] = struct{}{}
	}

	for _, cam := range c.cameras.Cameras() {
		if _, ok := seen[cam.ID]; ok {
			continue
		}
		return &models.Prediction{
			CameraID:   cam.ID,
			Location:   cam.Location(),
			Confidence: math.Min(0.9, 0.5+0.1*float64(p.Count)),
			Reasoning:  fmt.Sprintf("Pattern detected: %d similar incidents", p.Count),
		}, true
	}
	return nil, false
}

// Patterns returns snapshots of every pattern in creation order.
func (c *Correlator) Patterns() []*models.Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.Pattern, 0, len(c.patterns))
	for _, p := range c.patterns {
		out = append(out, clonePattern(p))
	}
	return out
}

func withinWindow(anchor, ts time.Time) bool {
	d := ts.Sub(anchor)
	if d < 0 {
		d = -d
	}
	return d < PatternWindow
}

func clonePattern(p *models.Pattern) *models.Pattern {
	c := *p
	c.Occurrences = append([]models.DetectionEvent(nil), p.Occurrences...)
	if p.PredictedNext != nil {
		pred := *p.PredictedNext
		c.PredictedNext = &pred
	}
	return &c
}
