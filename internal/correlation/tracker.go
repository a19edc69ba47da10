// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package correlation

import (
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/ursa/internal/models"
)

// MaxSightings is how many sightings each entity keeps.
const MaxSightings = 10

// Tracker follows entities through their recent sightings.
type Tracker struct {
	mu       sync.Mutex
	entities map[string]*models.TrackedEntity
	petTypes map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entities: make(map[string]*models.TrackedEntity),
		petTypes: make(map[string]string),
	}
}

// EntityID is the key a new entity gets when t starts one: pet type plus
// the originating camera.
func EntityID(t *models.Threat) string {
	return petType(t) + "_" + t.CameraID
}

func petType(t *models.Threat) string {
	if t.Details.PetType == "" {
		return "pet"
	}
	return t.Details.PetType
}

// Track records a sighting of t. The sighting joins the live entity of the
// same pet type, one whose newest sighting is within PatternWindow of t, so
// an animal walking past several cameras stays one entity. Without a live
// match it goes to EntityID(t). When the entity's sightings span two or
// more cameras the cross-camera fields of t.Details are set.
func (tr *Tracker) Track(t *models.Threat) models.TrackedEntity {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	e := tr.liveEntity(t)
	if e == nil {
		id := EntityID(t)
		var ok bool
		if e, ok = tr.entities[id]; !ok {
			e = &models.TrackedEntity{EntityID: id}
			tr.entities[id] = e
			tr.petTypes[id] = petType(t)
		}
	}

	e.Sightings = append(e.Sightings, models.Sighting{
		CameraID:  t.CameraID,
		Location:  t.Location,
		Timestamp: t.Timestamp,
		ThreatID:  t.ID,
	})
	if n := len(e.Sightings); n > MaxSightings {
		e.Sightings = append([]models.Sighting(nil), e.Sightings[n-MaxSightings:]...)
	}

	cams := make(map[string]struct{}, len(e.Sightings))
	for _, s := range e.Sightings {
		cams[s.CameraID] = struct{}{}
	}
	e.CameraCount = len(cams)
	e.CrossCamera = e.CameraCount >= 2

	if e.CrossCamera {
		t.Details.DetectedAcrossCameras = true
		t.Details.CameraCount = e.CameraCount
		t.Details.IsMovingAcrossStreets = true
	}
	return cloneEntity(e)
}

// liveEntity returns the entity of t's pet type with the most recent
// sighting, provided that sighting is within PatternWindow of t.
func (tr *Tracker) liveEntity(t *models.Threat) *models.TrackedEntity {
	kind := petType(t)
	var best *models.TrackedEntity
	var bestAt time.Time
	for id, e := range tr.entities {
		if tr.petTypes[id] != kind || len(e.Sightings) == 0 {
			continue
		}
		last := e.Sightings[len(e.Sightings)-1].Timestamp
		if !withinWindow(last, t.Timestamp) {
			continue
		}
		if best == nil || last.After(bestAt) || (last.Equal(bestAt) && id < best.EntityID) {
			best, bestAt = e, last
		}
	}
	return best
}

// Entities returns snapshots of every tracked entity ordered by id.
func (tr *Tracker) Entities() []models.TrackedEntity {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	out := make([]models.TrackedEntity, 0, len(tr.entities))
	for _, e := range tr.entities {
		out = append(out, cloneEntity(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

func cloneEntity(e *models.TrackedEntity) models.TrackedEntity {
	c := *e
	c.Sightings = append([]models.Sighting(nil), e.Sightings...)
	return c
}
