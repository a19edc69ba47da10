// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package scenario plays scripted detections through the camera agents so
// the dashboard, dispatch and pattern correlation can be demonstrated
// without live video.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/ursa/internal/models"
)

// Scenario names.
const (
	CarProwler = "car_prowler"
	LostPet    = "lost_pet"
	Wildlife   = "wildlife_detection"
)

// ErrUnknownScenario is returned for a name without a script.
var ErrUnknownScenario = errors.New("unknown scenario")

// Step is one scripted detection. Delay is waited before the step runs.
type Step struct {
	CameraID   string
	Activity   models.ActivityType
	Confidence float64
	Delay      time.Duration
}

// Script is a named sequence of steps.
type Script struct {
	Name           string
	StartMessage   string
	SummaryMessage string
	Warmup         time.Duration
	SummaryDelay   time.Duration
	Steps          []Step
}

var scripts = map[string]Script{
	CarProwler: {
		Name:           CarProwler,
		StartMessage:   "Car prowler scenario started - monitoring neighborhood",
		SummaryMessage: "Pattern detected: Car prowler moving through neighborhood",
		Warmup:         2 * time.Second,
		SummaryDelay:   2 * time.Second,
		Steps: []Step{
			{CameraID: "cam_001", Activity: models.ActivityCarProwling, Confidence: 0.75, Delay: 3 * time.Second},
			{CameraID: "cam_002", Activity: models.ActivityCarProwling, Confidence: 0.82, Delay: 8 * time.Second},
			{CameraID: "cam_003", Activity: models.ActivityCarProwling, Confidence: 0.88, Delay: 6 * time.Second},
		},
	},
	LostPet: {
		Name:           LostPet,
		StartMessage:   "Lost pet scenario started - tracking sightings",
		SummaryMessage: "Lost dog sighted moving between cameras",
		Warmup:         2 * time.Second,
		SummaryDelay:   2 * time.Second,
		Steps: []Step{
			{CameraID: "cam_001", Activity: models.ActivityLostPet, Confidence: 0.72, Delay: 3 * time.Second},
			{CameraID: "cam_004", Activity: models.ActivityLostPet, Confidence: 0.8, Delay: 6 * time.Second},
		},
	},
	Wildlife: {
		Name:           Wildlife,
		StartMessage:   "Wildlife scenario started - monitoring neighborhood",
		SummaryMessage: "Wildlife activity detected near homes",
		Warmup:         2 * time.Second,
		SummaryDelay:   2 * time.Second,
		Steps: []Step{
			{CameraID: "cam_005", Activity: models.ActivityWildlifeBear, Confidence: 0.85, Delay: 3 * time.Second},
			{CameraID: "cam_004", Activity: models.ActivityWildlifeCoyote, Confidence: 0.78, Delay: 5 * time.Second},
			{CameraID: "cam_002", Activity: models.ActivityWildlifeDeer, Confidence: 0.7, Delay: 4 * time.Second},
		},
	},
}

// Lookup returns the script named name.
func Lookup(name string) (Script, error) {
	s, ok := scripts[name]
	if !ok {
		return Script{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	s.Steps = append([]Step(nil), s.Steps...)
	return s, nil
}

// Names lists the available scenarios.
func Names() []string {
	out := make([]string, 0, len(scripts))
	for name := range scripts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
