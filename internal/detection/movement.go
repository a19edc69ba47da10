// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import "math"

// MovementPattern labels the shape of recent activity.
type MovementPattern string

const (
	MovementStatic         MovementPattern = "static"
	MovementSlowDeliberate MovementPattern = "slow_deliberate"
	MovementFast           MovementPattern = "fast_movement"
	MovementErratic        MovementPattern = "erratic"
	MovementModerate       MovementPattern = "moderate"
)

const (
	// recentWindow is how many activity samples movement and persistence look at.
	recentWindow = 10

	// minSamples is the history length below which both return their zero value.
	minSamples = 5

	// activeSample is the activity level a sample must exceed to count as active.
	activeSample = 0.08
)

// ClassifyMovement labels the last ten samples (or fewer). Fewer than five
// samples is always static.
func ClassifyMovement(samples []float64) MovementPattern {
	if len(samples) < minSamples {
		return MovementStatic
	}
	recent := tail(samples, recentWindow)
	avg, std := meanStd(recent)

	switch {
	case avg < 0.05:
		return MovementStatic
	case std < 0.02 && avg > 0.08 && avg < 0.15:
		return MovementSlowDeliberate
	case avg > 0.15:
		return MovementFast
	case std > 0.03:
		return MovementErratic
	default:
		return MovementModerate
	}
}

// PersistenceRatio is the fraction of the last ten samples above 0.08,
// or 0 with fewer than five samples.
func PersistenceRatio(samples []float64) float64 {
	if len(samples) < minSamples {
		return 0
	}
	recent := tail(samples, recentWindow)
	active := 0
	for _, s := range recent {
		if s > activeSample {
			active++
		}
	}
	return float64(active) / float64(len(recent))
}

func tail(s []float64, n int) []float64 {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

// meanStd returns the mean and population standard deviation.
func meanStd(s []float64) (float64, float64) {
	if len(s) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	avg := sum / float64(len(s))
	var sq float64
	for _, v := range s {
		sq += (v - avg) * (v - avg)
	}
	return avg, math.Sqrt(sq / float64(len(s)))
}
