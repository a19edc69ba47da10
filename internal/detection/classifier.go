// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"fmt"
	"math"

	"github.com/tomtom215/ursa/internal/models"
)

// MaxConfidence caps classifier confidence.
const MaxConfidence = 0.95

// petSpeed is the motion speed that marks an unaccompanied pet as moving
// even when its positions have not spread yet.
const petSpeed = 0.05

// Classification is a positive classifier decision.
type Classification struct {
	Activity   models.ActivityType
	Score      float64
	FireScore  float64
	Confidence float64
	PetType    string
	Species    string
}

// Classifier maps features to one activity label with fixed precedence.
type Classifier struct {
	scorer *Scorer
	fire   FireProfile
}

// NewClassifier builds a classifier for profile p and fire thresholds fp.
func NewClassifier(p Profile, fp FireProfile) *Classifier {
	return &Classifier{scorer: NewScorer(p), fire: fp}
}

// Profile returns the active scoring profile.
func (c *Classifier) Profile() Profile {
	return c.scorer.Profile()
}

// Classify returns the classification and true, or false when no rule
// matches. The fused score is returned either way for telemetry.
func (c *Classifier) Classify(f Features) (Classification, float64, bool) {
	score := c.scorer.Score(f)

	if fs := FireScore(f.Signal, c.fire); fs >= c.fire.Threshold {
		return Classification{
			Activity:   models.ActivityWildfire,
			Score:      score,
			FireScore:  fs,
			Confidence: math.Min(MaxConfidence, fs),
		}, score, true
	}

	if pet := f.Objects.Unaccompanied; pet != nil && petLabels[pet.Class] &&
		(f.Objects.AnimalVariance > animalMovingVariance || f.Signal.MotionSpeed > petSpeed) {
		// A pet detection stands on its own even when the profile is not
		// tuned for animals, so the detector's confidence is a floor.
		conf := math.Max(pet.Confidence, NewScorer(WildlifeProfile()).Score(f))
		return Classification{
			Activity:   models.ActivityLostPet,
			Score:      score,
			Confidence: math.Min(MaxConfidence, conf),
			PetType:    pet.Class,
		}, score, true
	}

	p := c.scorer.Profile()
	if score <= p.Threshold {
		return Classification{}, score, false
	}

	var (
		activity models.ActivityType
		species  string
	)
	switch p.Domain {
	case DomainWildlife:
		activity, species = classifyWildlife(f)
	default:
		activity = classifyIntrusion(f)
	}
	if activity == "" {
		return Classification{}, score, false
	}
	return Classification{
		Activity:   activity,
		Score:      score,
		Confidence: math.Min(MaxConfidence, score),
		Species:    species,
	}, score, true
}

func classifyIntrusion(f Features) models.ActivityType {
	sig := f.Signal
	persist := f.Persistence
	hasPeople := len(f.Objects.People) > 0

	if f.Objects.PeopleNearVehicles {
		if f.Movement == MovementSlowDeliberate ||
			(sig.MotionSpeed > 0.02 && sig.MotionSpeed < 0.10 && persist > 0.4) ||
			persist > 0.5 {
			return models.ActivityCarProwling
		}
	}

	if f.Objects.Loitering && hasPeople {
		return models.ActivityLoitering
	}

	if hasPeople {
		if (f.Movement == MovementSlowDeliberate || f.Movement == MovementErratic) && persist > 0.5 {
			return models.ActivitySuspiciousMovement
		}
		if sig.EdgeDensity > 0.10 && sig.EdgeDensity < 0.20 && persist > 0.6 {
			return models.ActivitySuspiciousMovement
		}
		return ""
	}

	if f.Movement == MovementSlowDeliberate &&
		sig.EdgeDensity > 0.10 && sig.EdgeDensity < 0.20 &&
		sig.MotionSpeed > 0.02 && sig.MotionSpeed < 0.08 &&
		persist > 0.6 {
		return models.ActivitySuspiciousMovement
	}
	if persist > 0.7 && sig.EdgeDensity > 0.08 && sig.EdgeDensity < 0.15 && sig.MotionSpeed < 0.05 {
		return models.ActivityLoitering
	}
	return ""
}

func classifyWildlife(f Features) (models.ActivityType, string) {
	if len(f.Objects.Animals) == 0 {
		return "", ""
	}
	for _, a := range f.Objects.Animals {
		switch a.Class {
		case LabelBear:
			return models.ActivityWildlifeBear, a.Class
		case LabelCoyote:
			return models.ActivityWildlifeCoyote, a.Class
		case LabelDeer:
			return models.ActivityWildlifeDeer, a.Class
		}
	}
	return models.ActivityWildlifeDetected, f.Objects.Animals[0].Class
}

// Describe builds the human-readable description for a classification.
func Describe(c Classification, s ObjectSummary) string {
	desc := fmt.Sprintf("AI detected %s", c.Activity)
	switch {
	case c.Activity == models.ActivityWildfire:
		desc += fmt.Sprintf(" - fire colorimetry score %.2f", c.FireScore)
	case c.Activity == models.ActivityLostPet:
		desc += fmt.Sprintf(" - %s moving with no person nearby", c.PetType)
	case s.PeopleNearVehicles:
		desc += " - Person detected near vehicle"
	case len(s.People) > 0:
		desc += fmt.Sprintf(" - %d person(s) detected", len(s.People))
	case len(s.Animals) > 0:
		desc += fmt.Sprintf(" - %d animal(s) detected", len(s.Animals))
	}
	return desc + " via computer vision + object detection"
}
