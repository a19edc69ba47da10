// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package notify

import (
	"github.com/twilio/twilio-go/twiml"
)

// Webhook paths Twilio calls back into.
const (
	VoicePath  = "/api/v1/twilio/voice"
	GatherPath = "/api/v1/twilio/gather"
)

const voice = "alice"

// VoiceResponse speaks message, offers a one digit menu posting to
// gatherAction, and hangs up when nothing is pressed.
func VoiceResponse(message, gatherAction string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: message, Voice: voice, Language: "en-US"},
		&twiml.VoiceGather{
			NumDigits: "1",
			Timeout:   "10",
			Action:    gatherAction,
			InnerElements: []twiml.Element{
				&twiml.VoiceSay{Message: "Press 1 for more information, or press 2 to end the call.", Voice: voice},
			},
		},
		&twiml.VoiceSay{Message: "Thank you for your attention. Goodbye.", Voice: voice},
		&twiml.VoiceHangup{},
	})
}

// GatherResponse answers the keypad menu. Digit 1 reads summary.
func GatherResponse(digits, summary string) (string, error) {
	switch digits {
	case "1":
		if summary == "" {
			summary = "No additional information available."
		}
		return twiml.Voice([]twiml.Element{
			&twiml.VoiceSay{Message: summary, Voice: voice},
		})
	case "2":
		return twiml.Voice([]twiml.Element{
			&twiml.VoiceSay{Message: "Thank you. Ending call.", Voice: voice},
			&twiml.VoiceHangup{},
		})
	default:
		return twiml.Voice([]twiml.Element{
			&twiml.VoiceSay{Message: "Invalid selection. Goodbye.", Voice: voice},
			&twiml.VoiceHangup{},
		})
	}
}

// SayResponse speaks a single line.
func SayResponse(text string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: text, Voice: voice},
	})
}
