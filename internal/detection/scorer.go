// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

// Features is everything the scorer and classifier look at for one frame.
type Features struct {
	Signal      FrameSignal
	Movement    MovementPattern
	Persistence float64
	Objects     ObjectSummary
}

// Scorer fuses Features into a suspicion score for one profile.
type Scorer struct {
	profile Profile
}

// NewScorer returns a scorer for p.
func NewScorer(p Profile) *Scorer {
	return &Scorer{profile: p}
}

// Profile returns the scorer's profile.
func (s *Scorer) Profile() Profile {
	return s.profile
}

// Score returns the fused score clamped to [0,1].
func (s *Scorer) Score(f Features) float64 {
	w := s.profile.Weights
	sig := f.Signal
	score := 0.0

	switch {
	case sig.EdgeDensity > 0.10 && sig.EdgeDensity < 0.25:
		score += w.EdgeBand
	case sig.EdgeDensity > 0.25:
		score += w.EdgeDense
	}

	switch {
	case sig.MotionConsistency > 0.3:
		score += w.Concentrated
	case sig.MotionConsistency < 0.1:
		score += w.Scattered
	}

	switch {
	case sig.MotionSpeed > 0.02 && sig.MotionSpeed < 0.10:
		score += w.ModerateSpeed
	case sig.MotionSpeed > 0.15:
		score += w.HighSpeed
	}

	switch {
	case f.Persistence > 0.6:
		score += w.Sustained
	case f.Persistence < 0.3:
		score += w.Transient
	}

	switch f.Movement {
	case MovementSlowDeliberate:
		score += w.SlowDeliberate
	case MovementFast:
		score += w.FastMovement
	case MovementErratic:
		score += w.Erratic
	}

	switch {
	case sig.IntensityStd > 30 && sig.IntensityStd < 80:
		score += w.ModerateIntensity
	case sig.IntensityStd > 100:
		score += w.HighIntensity
	}

	targets := s.profile.targets(f.Objects)
	switch {
	case w.NearVehicle != 0 && f.Objects.PeopleNearVehicles:
		score += w.NearVehicle
	case w.Loitering != 0 && f.Objects.Loitering:
		score += w.Loitering
	case len(targets) > 0:
		score += w.TargetPresent
		if sig.MotionSpeed > 0.02 {
			score += w.TargetMoving
		} else {
			score += w.TargetStationary
		}
	}

	if len(targets) == 0 && sig.MotionSpeed > 0.1 {
		score += w.NoTargetHighSpeed
	}

	return clamp01(score)
}

// FireScore rates fire and smoke colorimetry independently of any profile.
func FireScore(sig FrameSignal, p FireProfile) float64 {
	fire := sig.Color(ColorFire) > p.FireDensity
	smoke := sig.Color(ColorSmoke) > p.SmokeDensity

	score := 0.0
	if fire {
		score += 0.4
	}
	if smoke {
		score += 0.3
	}
	if sig.MotionSpeed > p.MotionSpeed {
		score += 0.2
	}
	if fire && smoke {
		score += 0.1
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
