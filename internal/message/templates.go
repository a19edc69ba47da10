// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package message words outbound calls and community texts. Templates is
// deterministic; Gemini asks a generative model and falls back to a
// Renderer on any failure.
package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/severity"
)

// Message kinds for metrics.
const (
	KindCall = "call"
	KindSMS  = "sms"
)

// Input carries everything a renderer may mention.
type Input struct {
	Threat        *models.Threat
	Analysis      models.Analysis
	NearbyCameras int
	Recipient     models.Recipient
}

// Renderer produces message text. Implementations never fail; they
// degrade to simpler wording instead.
type Renderer interface {
	CallMessage(ctx context.Context, in Input) string
	CommunityMessage(ctx context.Context, in Input) string
}

// Templates renders fixed wording.
type Templates struct {
	loc *time.Location
}

// NewTemplates renders clock times in loc, or local time when loc is nil.
func NewTemplates(loc *time.Location) *Templates {
	if loc == nil {
		loc = time.Local
	}
	return &Templates{loc: loc}
}

// CallMessage is the text spoken to the authority.
func (t *Templates) CallMessage(_ context.Context, in Input) string {
	th := in.Threat
	var b strings.Builder

	fmt.Fprintf(&b, "Hello, this is Ursa security system calling to report a %s severity incident. ", in.Analysis.Severity)
	fmt.Fprintf(&b, "We have detected %s with %.0f%% confidence. ", activityWords(th), th.Confidence*100)
	fmt.Fprintf(&b, "The incident is categorized as %s. ", severity.Words(string(in.Analysis.Category)))
	if hasCoordinates(th.Location) {
		fmt.Fprintf(&b, "Location coordinates are %.4f, %.4f. ", th.Location.Lat, th.Location.Lng)
	}
	if in.NearbyCameras > 0 {
		fmt.Fprintf(&b, "We have %d additional cameras monitoring the area. ", in.NearbyCameras)
	}
	b.WriteString("Please advise on the appropriate response. Thank you.")
	return b.String()
}

var guidance = map[models.Category]string{
	models.CategoryCarProwling:           "⚠️ Be alert: Someone may be checking vehicles in your area. Please check your vehicles and report any suspicious activity.",
	models.CategorySuspiciousActivity:    "⚠️ Unusual activity detected in your neighborhood. Please remain vigilant and report any concerns.",
	models.CategoryBehavioralAbnormality: "⚠️ Behavioral concern detected. Please check on neighbors if safe to do so.",
	models.CategoryFire:                  "🔥 FIRE DETECTED. Evacuate if necessary and call 911 immediately.",
	models.CategoryWildfire:              "🔥 WILDFIRE DETECTED. Evacuate if necessary and call 911 immediately.",
	models.CategoryAssault:               "🚨 CRITICAL INCIDENT. Stay indoors, lock doors, and call 911 if you see anything.",
	models.CategoryKidnapping:            "🚨 CRITICAL INCIDENT. Stay indoors, lock doors, and call 911 if you see anything.",
	models.CategoryWildlifeBear:          "🐻 BEAR DETECTED. Keep distance and alert wildlife authorities.",
	models.CategoryWildlifeCoyote:        "🐺 COYOTE DETECTED. Keep pets indoors.",
}

// CommunityMessage is the SMS sent to subscribers.
func (t *Templates) CommunityMessage(_ context.Context, in Input) string {
	th := in.Threat
	var b strings.Builder

	b.WriteString("🚨 URSA SECURITY ALERT 🚨\n\n")
	fmt.Fprintf(&b, "Incident detected: %s\n", titleWords(activityWords(th)))
	fmt.Fprintf(&b, "Severity: %s\n", strings.ToUpper(string(in.Analysis.Severity)))
	fmt.Fprintf(&b, "Time: %s\n\n", t.clock(th.Timestamp))

	if in.Analysis.Category == models.CategoryLostPet {
		pet := th.Details.PetType
		if pet == "" {
			pet = "pet"
		}
		fmt.Fprintf(&b, "🐾 LOST PET ALERT: %s detected without owner nearby.\n\n", titleWords(pet))
	} else if g, ok := guidance[in.Analysis.Category]; ok {
		b.WriteString(g)
		b.WriteString("\n\n")
	}

	if hasCoordinates(th.Location) {
		fmt.Fprintf(&b, "Location: %.4f, %.4f\n", th.Location.Lat, th.Location.Lng)
	}
	if in.NearbyCameras > 0 {
		b.WriteString("Multiple cameras monitoring the area.\n")
	}
	b.WriteString("\nStay safe. Updates will be sent as the situation develops.")
	return b.String()
}

func (t *Templates) clock(ts time.Time) string {
	if ts.IsZero() {
		return "recently"
	}
	return ts.In(t.loc).Format("03:04 PM")
}

func activityWords(th *models.Threat) string {
	if th.Type == "" {
		return "suspicious activity"
	}
	return severity.Words(th.Type)
}

func hasCoordinates(l models.Location) bool {
	return l != (models.Location{})
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
