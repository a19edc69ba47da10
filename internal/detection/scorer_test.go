// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomtom215/ursa/internal/models"
)

var person = NewObjectDetection(LabelPerson, 0.9, 80, 60, 120, 140)  // center 100,100
var car = NewObjectDetection(LabelCar, 0.9, 60, 60, 200, 200)       // person center inside
var farCar = NewObjectDetection(LabelCar, 0.9, 400, 400, 600, 600)  // well clear of person
var bear = NewObjectDetection(LabelBear, 0.9, 300, 300, 360, 360)   // center 330,330

func summaryOf(objs ...ObjectDetection) ObjectSummary {
	f := FilterObjects(time.Now(), objs)
	return Summarize(f, []ObjectFrame{f})
}

func TestFireScore(t *testing.T) {
	t.Parallel()

	sig := FrameSignal{
		MotionSpeed:    0.06,
		ColorDensities: map[string]float64{ColorFire: 0.12, ColorSmoke: 0.09},
	}
	if got := FireScore(sig, DefaultFireProfile()); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("FireScore = %v, want 1.0", got)
	}

	smokeOnly := FrameSignal{ColorDensities: map[string]float64{ColorSmoke: 0.2}}
	if got := FireScore(smokeOnly, DefaultFireProfile()); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("smoke only FireScore = %v, want 0.3", got)
	}
}

func TestScorerIntrusionCarProwler(t *testing.T) {
	t.Parallel()

	f := Features{
		Signal:      FrameSignal{EdgeDensity: 0.12, MotionConsistency: 0.5, MotionSpeed: 0.05, IntensityStd: 50},
		Movement:    MovementSlowDeliberate,
		Persistence: 1,
		Objects:     summaryOf(person, car),
	}
	if !f.Objects.PeopleNearVehicles {
		t.Fatal("expected person near vehicle")
	}
	if got := NewScorer(IntrusionProfile()).Score(f); got != 1 {
		t.Errorf("Score = %v, want 1 (clamped)", got)
	}
}

func TestScorerPenalties(t *testing.T) {
	t.Parallel()

	f := Features{
		Signal:      FrameSignal{EdgeDensity: 0.01, MotionConsistency: 0.05, MotionSpeed: 0.2, IntensityStd: 120},
		Movement:    MovementFast,
		Persistence: 0.1,
	}
	if got := NewScorer(IntrusionProfile()).Score(f); got != 0 {
		t.Errorf("Score = %v, want 0 (clamped)", got)
	}
}

func TestScorerObjectFactors(t *testing.T) {
	t.Parallel()

	base := FrameSignal{EdgeDensity: 0.05, MotionConsistency: 0.2}
	tests := []struct {
		name    string
		profile Profile
		speed   float64
		objects ObjectSummary
		want    float64
	}{
		// Persistence 0.5 and moderate movement contribute nothing.
		{"no objects", IntrusionProfile(), 0, ObjectSummary{}, 0},
		{"person stationary", IntrusionProfile(), 0, summaryOf(person), 0.10},
		{"person near vehicle", IntrusionProfile(), 0, summaryOf(person, car), 0.30},
		{"person beside distant car", IntrusionProfile(), 0, summaryOf(person, farCar), 0.10},
		{"no target fast motion", IntrusionProfile(), 0.12, ObjectSummary{}, 0},
		{"animal ignored by intrusion", IntrusionProfile(), 0, summaryOf(bear), 0},
		{"animal stationary wildlife", WildlifeProfile(), 0, summaryOf(bear), 0.40},
		{"animal moving wildlife", WildlifeProfile(), 0.05, summaryOf(bear), 0.30 + 0.15 + 0.12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sig := base
			sig.MotionSpeed = tt.speed
			f := Features{Signal: sig, Movement: MovementModerate, Persistence: 0.5, Objects: tt.objects}
			if got := NewScorer(tt.profile).Score(f); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreAlwaysBounded(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	patterns := []MovementPattern{MovementStatic, MovementSlowDeliberate, MovementFast, MovementErratic, MovementModerate}
	labels := []string{LabelPerson, LabelCar, LabelTruck, LabelDog, LabelBear, LabelDeer}
	scorers := []*Scorer{NewScorer(IntrusionProfile()), NewScorer(WildlifeProfile())}

	for i := 0; i < 2000; i++ {
		var objs []ObjectDetection
		for n := r.Intn(5); n > 0; n-- {
			x, y := r.Float64()*600, r.Float64()*400
			objs = append(objs, NewObjectDetection(labels[r.Intn(len(labels))], r.Float64(), x, y, x+r.Float64()*200, y+r.Float64()*200))
		}
		f := Features{
			Signal: FrameSignal{
				EdgeDensity:       r.Float64(),
				IntensityMean:     r.Float64() * 255,
				IntensityStd:      r.Float64() * 128,
				MotionSpeed:       r.Float64(),
				MotionConsistency: r.Float64(),
				ColorDensities:    map[string]float64{ColorFire: r.Float64(), ColorSmoke: r.Float64()},
			},
			Movement:    patterns[r.Intn(len(patterns))],
			Persistence: r.Float64(),
			Objects:     summaryOf(objs...),
		}
		for _, s := range scorers {
			if got := s.Score(f); got < 0 || got > 1 {
				t.Fatalf("score %v out of [0,1] for %+v", got, f)
			}
		}
		if got := FireScore(f.Signal, DefaultFireProfile()); got < 0 || got > 1 {
			t.Fatalf("fire score %v out of [0,1]", got)
		}
	}
}

func TestFilterObjectsDropsLowConfidence(t *testing.T) {
	t.Parallel()

	f := FilterObjects(time.Now(), []ObjectDetection{
		NewObjectDetection(LabelPerson, 0.5, 0, 0, 10, 10),
		NewObjectDetection(LabelPerson, 0.51, 0, 0, 10, 10),
		NewObjectDetection(LabelTruck, 0.9, 0, 0, 10, 10),
		NewObjectDetection(LabelCow, 0.9, 0, 0, 10, 10),
		NewObjectDetection("kite", 0.9, 0, 0, 10, 10),
	})
	if len(f.People) != 1 || len(f.Vehicles) != 1 || len(f.Animals) != 1 {
		t.Errorf("people=%d vehicles=%d animals=%d, want 1/1/1", len(f.People), len(f.Vehicles), len(f.Animals))
	}
}

func TestLoiteringNeedsTenFrames(t *testing.T) {
	t.Parallel()

	var history []ObjectFrame
	var s ObjectSummary
	for i := 0; i < 10; i++ {
		f := FilterObjects(time.Now(), []ObjectDetection{person})
		history = append(history, f)
		s = Summarize(f, history)
		if i < 9 && s.Loitering {
			t.Fatalf("loitering after %d frames", i+1)
		}
	}
	if !s.Loitering {
		t.Error("stationary person over ten frames should be loitering")
	}

	empty := FilterObjects(time.Now(), nil)
	if Summarize(empty, append(history, empty)).Loitering {
		t.Error("no person in current frame means no loitering")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	got := Describe(Classification{Activity: models.ActivityCarProwling}, summaryOf(person, car))
	want := "AI detected car_prowling - Person detected near vehicle via computer vision + object detection"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}

	got = Describe(Classification{Activity: models.ActivitySuspiciousMovement}, summaryOf(person))
	want = "AI detected suspicious_movement - 1 person(s) detected via computer vision + object detection"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}
