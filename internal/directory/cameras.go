// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package directory holds the camera and community member registries.
// Both index entries in a geo.Grid for radius queries.
package directory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/ursa/internal/geo"
	"github.com/tomtom215/ursa/internal/models"
)

// Directory errors.
var (
	ErrNoCameras       = errors.New("camera directory is empty")
	ErrDuplicateCamera = errors.New("duplicate camera id")
	ErrUnknownCamera   = errors.New("unknown camera")
)

// gridCellMiles sizes the spatial index cells.
const gridCellMiles = 5

// DemoCameras returns the built-in five camera neighborhood.
func DemoCameras() []models.Camera {
	return []models.Camera{
		{ID: "cam_001", Lat: 37.7749, Lng: -122.4194, Address: "123 Oak St", Status: models.CameraActive},
		{ID: "cam_002", Lat: 37.7755, Lng: -122.4200, Address: "456 Pine Ave", Status: models.CameraActive},
		{ID: "cam_003", Lat: 37.7761, Lng: -122.4206, Address: "789 Elm Dr", Status: models.CameraActive},
		{ID: "cam_004", Lat: 37.7743, Lng: -122.4188, Address: "321 Maple Ln", Status: models.CameraActive},
		{ID: "cam_005", Lat: 37.7757, Lng: -122.4192, Address: "654 Cedar Rd", Status: models.CameraActive},
	}
}

// Cameras is the camera registry. Listing order is registration order.
type Cameras struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.Camera
	grid  *geo.Grid[string]
}

// NewCameras builds a registry from cams. At least one camera is required
// and every camera needs a unique id and a valid location.
func NewCameras(cams []models.Camera) (*Cameras, error) {
	if len(cams) == 0 {
		return nil, ErrNoCameras
	}

	c := &Cameras{
		byID: make(map[string]models.Camera, len(cams)),
		grid: geo.NewGrid[string](gridCellMiles),
	}
	for _, cam := range cams {
		if cam.ID == "" {
			return nil, fmt.Errorf("camera at %v,%v: missing id", cam.Lat, cam.Lng)
		}
		if _, dup := c.byID[cam.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCamera, cam.ID)
		}
		if err := c.grid.Insert(cam.ID, cam.Location(), cam.ID); err != nil {
			return nil, fmt.Errorf("camera %s: %w", cam.ID, err)
		}
		if cam.Status == "" {
			cam.Status = models.CameraActive
		}
		c.byID[cam.ID] = cam
		c.order = append(c.order, cam.ID)
	}
	return c, nil
}

// Cameras returns every camera in registration order.
func (c *Cameras) Cameras() []models.Camera {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Camera, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Get looks up a camera by id.
func (c *Cameras) Get(id string) (models.Camera, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cam, ok := c.byID[id]
	return cam, ok
}

// Touch records activity on a camera.
func (c *Cameras) Touch(id string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cam, ok := c.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCamera, id)
	}
	ts := at
	cam.LastActivity = &ts
	c.byID[id] = cam
	return nil
}

// Nearby returns cameras within radiusMiles of loc, nearest first. The
// reporting camera itself is included.
func (c *Cameras) Nearby(loc models.Location, radiusMiles float64) ([]models.NearbyCamera, error) {
	hits, err := c.grid.Within(loc, radiusMiles)
	if err != nil {
		return []models.NearbyCamera{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.NearbyCamera, 0, len(hits))
	for _, h := range hits {
		out = append(out, models.NearbyCamera{Camera: c.byID[h.Value], DistanceMiles: h.DistanceMiles})
	}
	return out, nil
}
