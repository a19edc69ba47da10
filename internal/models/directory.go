// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package models

import "time"

// Camera status values.
const (
	CameraActive  = "active"
	CameraOffline = "offline"
)

// Camera is one entry of the camera directory.
type Camera struct {
	ID           string     `json:"id" koanf:"id"`
	Lat          float64    `json:"lat" koanf:"lat"`
	Lng          float64    `json:"lng" koanf:"lng"`
	Address      string     `json:"address" koanf:"address"`
	Status       string     `json:"status" koanf:"status"`
	LastActivity *time.Time `json:"last_activity,omitempty" koanf:"-"`
}

// Location returns the camera position.
func (c Camera) Location() Location {
	return Location{Lat: c.Lat, Lng: c.Lng}
}

// NearbyCamera is a camera annotated with its distance to an incident.
type NearbyCamera struct {
	Camera
	DistanceMiles float64 `json:"distance_miles"`
}

// CommunityMember is a subscriber that receives SMS alerts for incidents
// within the notification radius of their position.
type CommunityMember struct {
	Phone string  `json:"phone" koanf:"phone" validate:"required,e164"`
	Lat   float64 `json:"lat" koanf:"lat" validate:"latitude"`
	Lng   float64 `json:"lng" koanf:"lng" validate:"longitude"`
	Name  string  `json:"name" koanf:"name" validate:"max=100"`
}

// Location returns the member position.
func (m CommunityMember) Location() Location {
	return Location{Lat: m.Lat, Lng: m.Lng}
}
