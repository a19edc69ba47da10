// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package models

import "time"

// Pattern groups same-behavior detections whose timestamps fall within the
// correlation window of Timestamp, the anchor.
type Pattern struct {
	ID            string           `json:"id"`
	Behavior      string           `json:"behavior"`
	Occurrences   []DetectionEvent `json:"occurrences"`
	Count         int              `json:"count"`
	Timestamp     time.Time        `json:"timestamp"`
	PredictedNext *Prediction      `json:"predicted_next"`
}

// Prediction is the next camera a pattern is expected to reach.
type Prediction struct {
	CameraID   string   `json:"camera_id"`
	Location   Location `json:"location"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// Sighting is one observation of a tracked entity.
type Sighting struct {
	CameraID  string    `json:"camera_id"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	ThreatID  string    `json:"threat_id"`
}

// TrackedEntity follows one subject, such as a lost pet, across cameras.
type TrackedEntity struct {
	EntityID    string     `json:"entity_id"`
	Sightings   []Sighting `json:"sightings"`
	CameraCount int        `json:"camera_count"`
	CrossCamera bool       `json:"cross_camera"`
}

// ReasoningEntry explains one camera agent decision.
type ReasoningEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	CameraID   string    `json:"camera_id"`
	Step       string    `json:"step"`
	Reasoning  string    `json:"reasoning"`
	Evidence   []string  `json:"evidence"`
	Conclusion string    `json:"conclusion"`
}
