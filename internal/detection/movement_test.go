// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"math"
	"testing"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestClassifyMovement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []float64
		want    MovementPattern
	}{
		{"empty history", nil, MovementStatic},
		{"four samples", repeat(0.2, 4), MovementStatic},
		{"quiet scene", repeat(0.01, 10), MovementStatic},
		{"steady moderate activity", repeat(0.1, 10), MovementSlowDeliberate},
		{"busy scene", repeat(0.2, 10), MovementFast},
		{"alternating", []float64{0.05, 0.12, 0.05, 0.12, 0.05, 0.12, 0.05, 0.12, 0.05, 0.12}, MovementErratic},
		{"low steady activity", repeat(0.06, 10), MovementModerate},
		{"only last ten count", append(repeat(0.5, 20), repeat(0.1, 10)...), MovementSlowDeliberate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyMovement(tt.samples); got != tt.want {
				t.Errorf("ClassifyMovement() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPersistenceRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"empty history", nil, 0},
		{"too few samples", repeat(0.5, 4), 0},
		{"three of five active", []float64{0.1, 0.1, 0.05, 0.05, 0.1}, 0.6},
		{"threshold is exclusive", repeat(0.08, 10), 0},
		{"old activity ignored", append([]float64{0.2, 0.2}, repeat(0.01, 10)...), 0},
		{"all active", repeat(0.3, 30), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PersistenceRatio(tt.samples); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PersistenceRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryEviction(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	for i := 0; i < HistoryCapacity+5; i++ {
		h.RecordActivity(float64(i))
	}
	if h.Samples() != HistoryCapacity {
		t.Fatalf("Samples() = %d, want %d", h.Samples(), HistoryCapacity)
	}
	all := h.Activity(100)
	if all[0] != 5 || all[len(all)-1] != float64(HistoryCapacity+4) {
		t.Errorf("oldest/newest = %v/%v, want 5/%d", all[0], all[len(all)-1], HistoryCapacity+4)
	}
	last := h.Activity(3)
	if len(last) != 3 || last[2] != float64(HistoryCapacity+4) {
		t.Errorf("Activity(3) = %v", last)
	}
}
