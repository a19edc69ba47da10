// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package models

// Recipient is the authority an escalated threat is reported to.
type Recipient string

const (
	RecipientPolice         Recipient = "police"
	RecipientAnimalControl  Recipient = "animal_control"
	RecipientFireDepartment Recipient = "fire_department"
	RecipientWildlife       Recipient = "wildlife_authorities"
)

// RecipientFor routes a category to its authority.
func RecipientFor(c Category) Recipient {
	switch c {
	case CategoryLostPet:
		return RecipientAnimalControl
	case CategoryWildfire, CategoryFire:
		return RecipientFireDepartment
	case CategoryWildlifeBear, CategoryWildlifeCoyote:
		return RecipientWildlife
	default:
		return RecipientPolice
	}
}

// Spoken is the recipient as it reads in a sentence.
func (r Recipient) Spoken() string {
	switch r {
	case RecipientAnimalControl:
		return "animal control"
	case RecipientFireDepartment:
		return "fire department"
	case RecipientWildlife:
		return "wildlife authorities"
	default:
		return "emergency services"
	}
}
