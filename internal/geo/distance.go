// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package geo provides great-circle distance and radius lookups in miles.
package geo

import (
	"errors"
	"math"

	"github.com/tomtom215/ursa/internal/models"
)

// EarthRadiusMiles is the mean Earth radius used by Distance.
const EarthRadiusMiles = 3959.0

// milesPerDegreeLat is the length of one degree of latitude.
const milesPerDegreeLat = EarthRadiusMiles * math.Pi / 180

// ErrInvalidLocation is returned when a coordinate is missing or out of
// range. Radius lookups treat it as "no results" rather than failing.
var ErrInvalidLocation = errors.New("geo: invalid location")

// Distance returns the haversine distance between a and b in miles.
func Distance(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CheckedDistance is Distance with validation of both endpoints.
func CheckedDistance(a, b models.Location) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, ErrInvalidLocation
	}
	return Distance(a, b), nil
}
