// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package models

import "time"

// ActivityType is the closed label set produced by the activity classifier.
type ActivityType string

const (
	ActivityCarProwling        ActivityType = "car_prowling"
	ActivityLoitering          ActivityType = "loitering"
	ActivitySuspiciousMovement ActivityType = "suspicious_movement"
	ActivityWildfire           ActivityType = "wildfire"
	ActivityLostPet            ActivityType = "lost_pet"
	ActivityWildlifeBear       ActivityType = "wildlife_bear"
	ActivityWildlifeCoyote     ActivityType = "wildlife_coyote"
	ActivityWildlifeDeer       ActivityType = "wildlife_deer"
	ActivityWildlifeDetected   ActivityType = "wildlife_detected"
)

// Severity hints carried on detection details. Distinct from the analyzed
// Severity, which is upper case.
const (
	HintLow    = "low"
	HintMedium = "medium"
)

// DetectionEvent is a single classifier decision for one camera frame.
// Behavior equals the activity type and is the key patterns group on.
type DetectionEvent struct {
	EventID      string           `json:"event_id,omitempty"`
	CameraID     string           `json:"camera_id"`
	ActivityType ActivityType     `json:"activity_type"`
	Confidence   float64          `json:"confidence"`
	Timestamp    time.Time        `json:"timestamp"`
	Behavior     string           `json:"behavior"`
	Location     *Location        `json:"location,omitempty"`
	Details      DetectionDetails `json:"details"`
}

// DetectionDetails is the descriptive part of a detection. AIMetrics is
// debug telemetry and nothing downstream branches on it.
type DetectionDetails struct {
	Description           string             `json:"description"`
	Severity              string             `json:"severity"`
	ActionRequired        bool               `json:"action_required"`
	PetType               string             `json:"pet_type,omitempty"`
	Species               string             `json:"species,omitempty"`
	DetectedAcrossCameras bool               `json:"detected_across_cameras,omitempty"`
	CameraCount           int                `json:"camera_count,omitempty"`
	IsMovingAcrossStreets bool               `json:"is_moving_across_streets,omitempty"`
	AIMetrics             map[string]float64 `json:"ai_metrics,omitempty"`
}
