// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import "fmt"

// Domain names a scoring profile.
type Domain string

const (
	DomainIntrusion Domain = "intrusion"
	DomainWildlife  Domain = "wildlife"
	DomainFire      Domain = "fire"
)

// Weights are the signed deltas a Scorer adds per factor.
type Weights struct {
	EdgeBand          float64 // 0.10 < edge < 0.25
	EdgeDense         float64 // edge > 0.25
	Concentrated      float64 // consistency > 0.3
	Scattered         float64 // consistency < 0.1
	ModerateSpeed     float64 // 0.02 < speed < 0.10
	HighSpeed         float64 // speed > 0.15
	Sustained         float64 // persistence > 0.6
	Transient         float64 // persistence < 0.3
	SlowDeliberate    float64
	FastMovement      float64
	Erratic           float64
	ModerateIntensity float64 // 30 < std < 80
	HighIntensity     float64 // std > 100
	NearVehicle       float64 // person beside a vehicle
	Loitering         float64
	TargetPresent     float64
	TargetMoving      float64 // target present and speed > 0.02
	TargetStationary  float64
	NoTargetHighSpeed float64 // no target and speed > 0.1
}

// Profile parameterizes the Scorer and Classifier for one domain.
type Profile struct {
	Domain    Domain
	Threshold float64
	Weights   Weights
}

// IntrusionProfile scores people around vehicles and property.
func IntrusionProfile() Profile {
	return Profile{
		Domain:    DomainIntrusion,
		Threshold: 0.60,
		Weights: Weights{
			EdgeBand:          0.12,
			EdgeDense:         0.03,
			Concentrated:      0.15,
			Scattered:         -0.10,
			ModerateSpeed:     0.12,
			HighSpeed:         -0.10,
			Sustained:         0.20,
			Transient:         -0.15,
			SlowDeliberate:    0.15,
			FastMovement:      -0.10,
			Erratic:           0.08,
			ModerateIntensity: 0.08,
			HighIntensity:     -0.10,
			NearVehicle:       0.30,
			Loitering:         0.25,
			TargetMoving:      0.15,
			TargetStationary:  0.10,
			NoTargetHighSpeed: -0.15,
		},
	}
}

// WildlifeProfile scores animals instead of people.
func WildlifeProfile() Profile {
	p := IntrusionProfile()
	p.Domain = DomainWildlife
	p.Threshold = 0.50
	p.Weights.NearVehicle = 0
	p.Weights.Loitering = 0
	p.Weights.TargetPresent = 0.30
	p.Weights.SlowDeliberate = 0.10
	p.Weights.Erratic = 0.05
	return p
}

// ProfileByName resolves a configured profile name.
func ProfileByName(name string) (Profile, error) {
	switch Domain(name) {
	case DomainIntrusion, "":
		return IntrusionProfile(), nil
	case DomainWildlife:
		return WildlifeProfile(), nil
	default:
		return Profile{}, fmt.Errorf("unknown detection profile %q", name)
	}
}

// targets returns the objects this profile treats as its target class.
func (p Profile) targets(s ObjectSummary) []ObjectDetection {
	if p.Domain == DomainWildlife {
		return s.Animals
	}
	return s.People
}

// FireProfile configures the colorimetric fire scorer.
type FireProfile struct {
	FireDensity  float64
	SmokeDensity float64
	MotionSpeed  float64
	Threshold    float64
}

// DefaultFireProfile returns the standard fire thresholds.
func DefaultFireProfile() FireProfile {
	return FireProfile{
		FireDensity:  0.10,
		SmokeDensity: 0.08,
		MotionSpeed:  0.05,
		Threshold:    0.6,
	}
}
