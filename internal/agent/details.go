// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package agent

import "github.com/tomtom215/ursa/internal/models"

var cannedDetails = map[models.ActivityType]models.DetectionDetails{
	models.ActivityCarProwling: {
		Description:    "Individual checking car door handles",
		Severity:       "medium",
		ActionRequired: true,
	},
	models.ActivityLoitering: {
		Description: "Person loitering near vehicles",
		Severity:    "low",
	},
	models.ActivitySuspiciousMovement: {
		Description:    "Unusual movement pattern detected",
		Severity:       "medium",
		ActionRequired: true,
	},
	models.ActivityWildfire: {
		Description:    "Smoke and flames detected",
		Severity:       "critical",
		ActionRequired: true,
	},
	models.ActivityLostPet: {
		Description:    "Dog detected without owner nearby",
		Severity:       "medium",
		ActionRequired: true,
		PetType:        "dog",
	},
	models.ActivityWildlifeBear: {
		Description:    "Bear detected near homes",
		Severity:       "high",
		ActionRequired: true,
		Species:        "bear",
	},
	models.ActivityWildlifeCoyote: {
		Description:    "Coyote detected in neighborhood",
		Severity:       "medium",
		ActionRequired: true,
		Species:        "coyote",
	},
	models.ActivityWildlifeDeer: {
		Description: "Deer passing through",
		Severity:    "low",
		Species:     "deer",
	},
}

// CannedDetails returns scripted details for activity. Unknown activities
// get a generic low-severity description.
func CannedDetails(activity models.ActivityType) models.DetectionDetails {
	if d, ok := cannedDetails[activity]; ok {
		return d
	}
	return models.DetectionDetails{Description: "Unknown activity", Severity: "low"}
}
