// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package severity decides how serious a threat is and who should hear
// about it. Everything here is a pure function of the threat record.
package severity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/ursa/internal/models"
)

// DefaultEscalationThreshold is the confidence a HIGH threat needs before
// an authority is called.
const DefaultEscalationThreshold = 0.75

// Policy holds the tunable parts of the analysis.
type Policy struct {
	EscalationThreshold float64
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{EscalationThreshold: DefaultEscalationThreshold}
}

// Analyze applies DefaultPolicy to t.
func Analyze(t *models.Threat) models.Analysis {
	return DefaultPolicy().Analyze(t)
}

// Analyze categorizes t and derives severity, escalation, notification,
// priority, actions and a summary.
func (p Policy) Analyze(t *models.Threat) models.Analysis {
	category := Categorize(t.Type)
	sev := Severity(category, t.Confidence)

	return models.Analysis{
		Category:              category,
		Severity:              sev,
		ShouldCallPolice:      p.shouldEscalate(sev, category, t.Confidence),
		ShouldNotifyCommunity: shouldNotify(sev, category),
		Priority:              Priority(sev),
		RecommendedActions:    Actions(sev, category),
		ResponseSummary:       Summary(t, sev, category),
		Confidence:            t.Confidence,
	}
}

// keyword rules are checked in order; the first match wins.
var categoryRules = []struct {
	keywords []string
	category models.Category
}{
	{[]string{"kidnap", "abduction"}, models.CategoryKidnapping},
	{[]string{"assault", "attack", "violence"}, models.CategoryAssault},
	{[]string{"wildfire"}, models.CategoryWildfire},
	{[]string{"fire", "smoke"}, models.CategoryFire},
	{[]string{"lost_pet"}, models.CategoryLostPet},
	{[]string{"bear"}, models.CategoryWildlifeBear},
	{[]string{"coyote"}, models.CategoryWildlifeCoyote},
	{[]string{"wildlife"}, models.CategoryWildlife},
	{[]string{"car_prowl", "vehicle"}, models.CategoryCarProwling},
	{[]string{"loiter"}, models.CategoryLoitering},
	{[]string{"child", "alone"}, models.CategoryBehavioralAbnormality},
	{[]string{"suspicious"}, models.CategorySuspiciousActivity},
}

// Categorize maps an activity type to a category by keyword.
func Categorize(activityType string) models.Category {
	lower := strings.ToLower(activityType)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryUnknown
}

// Severity derives the severity tier from category and confidence.
func Severity(c models.Category, confidence float64) models.Severity {
	switch c {
	case models.CategoryKidnapping, models.CategoryAssault, models.CategoryFire, models.CategoryWildfire:
		return models.SeverityCritical
	}

	switch {
	case c == models.CategoryCarProwling && confidence > 0.8,
		c == models.CategorySuspiciousActivity && confidence > 0.85,
		c == models.CategoryBehavioralAbnormality && confidence > 0.75,
		c == models.CategoryWildlifeBear && confidence > 0.7:
		return models.SeverityHigh
	}

	if confidence > 0.7 {
		return models.SeverityMedium
	}
	switch c {
	case models.CategoryCarProwling, models.CategorySuspiciousActivity, models.CategoryLostPet,
		models.CategoryWildlifeBear, models.CategoryWildlifeCoyote:
		return models.SeverityMedium
	}
	return models.SeverityLow
}

func (p Policy) shouldEscalate(sev models.Severity, c models.Category, confidence float64) bool {
	switch {
	case sev == models.SeverityCritical:
		return true
	case sev == models.SeverityHigh && confidence >= p.EscalationThreshold:
		return true
	case sev == models.SeverityMedium && confidence >= 0.9:
		return true
	case c == models.CategoryLostPet && confidence >= 0.7:
		return true
	}
	return false
}

func shouldNotify(sev models.Severity, c models.Category) bool {
	switch sev {
	case models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	switch c {
	case models.CategoryLostPet, models.CategoryWildlifeBear, models.CategoryWildlifeCoyote,
		models.CategoryWildfire, models.CategoryBehavioralAbnormality:
		return true
	}
	return false
}

// Priority returns the fixed urgency for a severity tier.
func Priority(sev models.Severity) int {
	switch sev {
	case models.SeverityCritical:
		return 10
	case models.SeverityHigh:
		return 7
	case models.SeverityMedium:
		return 5
	case models.SeverityLow:
		return 2
	default:
		return 1
	}
}

// Actions lists the tier defaults followed by category additions.
func Actions(sev models.Severity, c models.Category) []string {
	var actions []string
	switch sev {
	case models.SeverityCritical:
		actions = append(actions, "Immediate police dispatch required", "Alert all nearby cameras", "Notify community immediately")
	case models.SeverityHigh:
		actions = append(actions, "Contact police dispatch", "Monitor with nearby cameras", "Notify community")
	case models.SeverityMedium:
		actions = append(actions, "Monitor situation", "Notify community if pattern continues")
	default:
		actions = append(actions, "Log incident")
	}

	switch c {
	case models.CategoryFire, models.CategoryWildfire:
		actions = append(actions, "Contact fire department")
	case models.CategoryBehavioralAbnormality:
		actions = append(actions, "Check for guardian presence", "Monitor child safety")
	case models.CategoryLostPet:
		actions = append(actions, "Contact animal control")
	case models.CategoryWildlifeBear, models.CategoryWildlifeCoyote:
		actions = append(actions, "Contact wildlife authorities")
	}
	return actions
}

// Words turns a snake_case label into space separated words.
func Words(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// Summary renders the one-paragraph response summary.
func Summary(t *models.Threat, sev models.Severity, c models.Category) string {
	activity := t.Type
	if activity == "" {
		activity = "unknown activity"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Detected %s at %s, %s at %s. ",
		Words(activity),
		strconv.FormatFloat(t.Location.Lat, 'f', -1, 64),
		strconv.FormatFloat(t.Location.Lng, 'f', -1, 64),
		t.Timestamp.Format("03:04 PM on January 02"))
	fmt.Fprintf(&b, "Confidence: %.0f%%. Severity: %s.", t.Confidence*100, sev)
	if c != models.CategoryUnknown {
		fmt.Fprintf(&b, " Category: %s.", Words(string(c)))
	}
	return b.String()
}
