// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/ursa/internal/models"
)

func TestClassifyWildfireShortCircuits(t *testing.T) {
	t.Parallel()

	f := Features{
		Signal: FrameSignal{
			MotionSpeed:    0.06,
			ColorDensities: map[string]float64{ColorFire: 0.12, ColorSmoke: 0.09},
		},
		Movement: MovementStatic,
		// A person beside a car would otherwise score as car prowling.
		Objects:     summaryOf(person, car),
		Persistence: 1,
	}
	c, _, ok := NewClassifier(IntrusionProfile(), DefaultFireProfile()).Classify(f)
	if !ok {
		t.Fatal("expected a classification")
	}
	if c.Activity != models.ActivityWildfire {
		t.Errorf("Activity = %s, want wildfire", c.Activity)
	}
	if c.Confidence != MaxConfidence {
		t.Errorf("Confidence = %v, want %v", c.Confidence, MaxConfidence)
	}
	if math.Abs(c.FireScore-1.0) > 1e-9 {
		t.Errorf("FireScore = %v, want 1.0", c.FireScore)
	}
}

func TestClassifyIntrusionRules(t *testing.T) {
	t.Parallel()

	active := FrameSignal{EdgeDensity: 0.12, MotionConsistency: 0.5, MotionSpeed: 0.05, IntensityStd: 50}
	still := FrameSignal{EdgeDensity: 0.12, MotionConsistency: 0.5, MotionSpeed: 0.01, IntensityStd: 50}

	loiterer := summaryOf(person)
	loiterer.Loitering = true

	tests := []struct {
		name     string
		features Features
		want     models.ActivityType
		ok       bool
	}{
		{
			name:     "person near car moving slowly",
			features: Features{Signal: active, Movement: MovementSlowDeliberate, Persistence: 1, Objects: summaryOf(person, car)},
			want:     models.ActivityCarProwling,
			ok:       true,
		},
		{
			name:     "person near car sustained presence",
			features: Features{Signal: still, Movement: MovementModerate, Persistence: 0.8, Objects: summaryOf(person, car)},
			want:     models.ActivityCarProwling,
			ok:       true,
		},
		{
			name:     "loitering person",
			features: Features{Signal: still, Movement: MovementModerate, Persistence: 0.8, Objects: loiterer},
			want:     models.ActivityLoitering,
			ok:       true,
		},
		{
			name:     "person erratic and persistent",
			features: Features{Signal: active, Movement: MovementErratic, Persistence: 0.8, Objects: summaryOf(person)},
			want:     models.ActivitySuspiciousMovement,
			ok:       true,
		},
		{
			name:     "motion only slow deliberate",
			features: Features{Signal: active, Movement: MovementSlowDeliberate, Persistence: 0.8},
			want:     models.ActivitySuspiciousMovement,
			ok:       true,
		},
		{
			name: "motion only loitering",
			features: Features{
				Signal:      FrameSignal{EdgeDensity: 0.12, MotionConsistency: 0.5, MotionSpeed: 0.01, IntensityStd: 50},
				Movement:    MovementSlowDeliberate,
				Persistence: 0.8,
			},
			want: models.ActivityLoitering,
			ok:   true,
		},
		{
			name:     "quiet scene",
			features: Features{Signal: FrameSignal{EdgeDensity: 0.01}, Movement: MovementStatic},
			ok:       false,
		},
		{
			name:     "high score with person but no rule",
			features: Features{Signal: active, Movement: MovementModerate, Persistence: 0.5, Objects: summaryOf(person)},
			ok:       false,
		},
	}

	c := NewClassifier(IntrusionProfile(), DefaultFireProfile())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, score, ok := c.Classify(tt.features)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (score %.2f)", ok, tt.ok, score)
			}
			if ok && got.Activity != tt.want {
				t.Errorf("Activity = %s, want %s", got.Activity, tt.want)
			}
			if ok && got.Confidence > MaxConfidence {
				t.Errorf("Confidence %v above cap", got.Confidence)
			}
		})
	}
}

func TestClassifyLostPet(t *testing.T) {
	t.Parallel()

	var history []ObjectFrame
	var current ObjectFrame
	for i := 0; i < 5; i++ {
		x := 100 + float64(i)*50
		current = FilterObjects(time.Now(), []ObjectDetection{NewObjectDetection(LabelDog, 0.8, x-20, 80, x+20, 120)})
		history = append(history, current)
	}

	f := Features{
		Signal:   FrameSignal{EdgeDensity: 0.05, MotionConsistency: 0.5, MotionSpeed: 0.03},
		Movement: MovementModerate,
		Objects:  Summarize(current, history),
	}
	c, _, ok := NewClassifier(IntrusionProfile(), DefaultFireProfile()).Classify(f)
	if !ok || c.Activity != models.ActivityLostPet {
		t.Fatalf("got %+v ok=%v, want lost_pet", c, ok)
	}
	if c.PetType != LabelDog {
		t.Errorf("PetType = %q, want dog", c.PetType)
	}
	if math.Abs(c.Confidence-0.8) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.8", c.Confidence)
	}

	// Same dog with its owner alongside.
	owner := NewObjectDetection(LabelPerson, 0.9, current.Animals[0].Center[0], 60, current.Animals[0].Center[0]+40, 140)
	withOwner := FilterObjects(time.Now(), append(current.Animals, owner))
	f.Objects = Summarize(withOwner, append(history[:4], withOwner))
	if c, _, ok := NewClassifier(IntrusionProfile(), DefaultFireProfile()).Classify(f); ok && c.Activity == models.ActivityLostPet {
		t.Error("accompanied dog should not be a lost pet")
	}
}

func TestClassifyWildlife(t *testing.T) {
	t.Parallel()

	sig := FrameSignal{EdgeDensity: 0.12, MotionConsistency: 0.5, MotionSpeed: 0.05, IntensityStd: 50}
	c := NewClassifier(WildlifeProfile(), DefaultFireProfile())

	got, _, ok := c.Classify(Features{Signal: sig, Movement: MovementSlowDeliberate, Persistence: 1, Objects: summaryOf(bear)})
	if !ok || got.Activity != models.ActivityWildlifeBear || got.Species != LabelBear {
		t.Errorf("got %+v ok=%v, want wildlife_bear", got, ok)
	}

	horse := NewObjectDetection(LabelHorse, 0.9, 0, 0, 50, 50)
	got, _, ok = c.Classify(Features{Signal: sig, Movement: MovementSlowDeliberate, Persistence: 1, Objects: summaryOf(horse)})
	if !ok || got.Activity != models.ActivityWildlifeDetected {
		t.Errorf("got %+v ok=%v, want wildlife_detected", got, ok)
	}

	_, score, ok := c.Classify(Features{Signal: sig, Movement: MovementSlowDeliberate, Persistence: 1})
	if ok {
		t.Errorf("no animal should yield no detection (score %.2f)", score)
	}
}

func TestProfileByName(t *testing.T) {
	t.Parallel()

	if p, err := ProfileByName("wildlife"); err != nil || p.Threshold != 0.50 {
		t.Errorf("wildlife profile = %+v, %v", p, err)
	}
	if p, err := ProfileByName(""); err != nil || p.Domain != DomainIntrusion {
		t.Errorf("default profile = %+v, %v", p, err)
	}
	if _, err := ProfileByName("marine"); err == nil {
		t.Error("expected error for unknown profile")
	}
}
