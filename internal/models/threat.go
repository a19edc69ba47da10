// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package models

import "time"

// Threat status values.
const (
	ThreatActive   = "active"
	ThreatResolved = "resolved"
)

// Category is the severity analyzer's taxonomy.
type Category string

const (
	CategoryKidnapping            Category = "kidnapping"
	CategoryAssault               Category = "assault"
	CategoryWildfire              Category = "wildfire"
	CategoryFire                  Category = "fire"
	CategoryLostPet               Category = "lost_pet"
	CategoryWildlifeBear          Category = "wildlife_bear"
	CategoryWildlifeCoyote        Category = "wildlife_coyote"
	CategoryWildlife              Category = "wildlife"
	CategoryCarProwling           Category = "car_prowling"
	CategoryLoitering             Category = "loitering"
	CategoryBehavioralAbnormality Category = "behavioral_abnormality"
	CategorySuspiciousActivity    Category = "suspicious_activity"
	CategoryUnknown               Category = "unknown"
)

// Severity is the analyzed severity tier.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Threat is a committed detection or manual report. It is appended to the
// threat log once and then mutated by the dispatch worker, which attaches
// Analysis and the call and notification records.
type Threat struct {
	ID                    string              `json:"id"`
	Type                  string              `json:"type"`
	CameraID              string              `json:"camera_id"`
	Location              Location            `json:"location"`
	Confidence            float64             `json:"confidence"`
	Timestamp             time.Time           `json:"timestamp"`
	Status                string              `json:"status"`
	Details               DetectionDetails    `json:"details"`
	Analysis              *Analysis           `json:"analysis,omitempty"`
	PoliceCall            *CallRecord         `json:"police_call,omitempty"`
	AnimalControlCall     *CallRecord         `json:"animal_control_call,omitempty"`
	CommunityNotification *NotificationRecord `json:"community_notification,omitempty"`
}

// Clone returns a deep copy safe to hand to another goroutine.
func (t *Threat) Clone() *Threat {
	if t == nil {
		return nil
	}
	c := *t
	if t.Details.AIMetrics != nil {
		c.Details.AIMetrics = make(map[string]float64, len(t.Details.AIMetrics))
		for k, v := range t.Details.AIMetrics {
			c.Details.AIMetrics[k] = v
		}
	}
	if t.Analysis != nil {
		a := *t.Analysis
		a.RecommendedActions = append([]string(nil), t.Analysis.RecommendedActions...)
		c.Analysis = &a
	}
	if t.PoliceCall != nil {
		pc := *t.PoliceCall
		c.PoliceCall = &pc
	}
	if t.AnimalControlCall != nil {
		ac := *t.AnimalControlCall
		c.AnimalControlCall = &ac
	}
	if t.CommunityNotification != nil {
		n := *t.CommunityNotification
		n.Notified = append([]NotifiedMember(nil), t.CommunityNotification.Notified...)
		c.CommunityNotification = &n
	}
	return &c
}

// Analysis is the severity analyzer's verdict for one threat.
type Analysis struct {
	Category              Category `json:"category"`
	Severity              Severity `json:"severity"`
	ShouldCallPolice      bool     `json:"should_call_police"`
	ShouldNotifyCommunity bool     `json:"should_notify_community"`
	Priority              int      `json:"priority"`
	RecommendedActions    []string `json:"recommended_actions"`
	ResponseSummary       string   `json:"response_summary"`
	Confidence            float64  `json:"confidence"`
}

// Call status values besides whatever the carrier reports. A cancelled
// call or text was never handed to the carrier.
const (
	CallSimulated = "simulated"
	CallFailed    = "failed"
	CallCancelled = "cancelled"
)

// NotificationCancelled is the NotificationRecord error when the pass was
// cancelled before any text went out.
const NotificationCancelled = "Notification cancelled before sending"

// CallRecord describes one outbound authority call.
type CallRecord struct {
	CallSID   string     `json:"call_sid,omitempty"`
	Status    string     `json:"status"`
	To        string     `json:"to"`
	From      string     `json:"from,omitempty"`
	Recipient string     `json:"recipient"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// SMSRecord describes one outbound text message.
type SMSRecord struct {
	MessageSID string `json:"message_sid,omitempty"`
	Status     string `json:"status"`
	To         string `json:"to"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

// NotifiedMember is one recipient of a community notification pass.
type NotifiedMember struct {
	PhoneNumber   string  `json:"phone_number"`
	Name          string  `json:"name"`
	DistanceMiles float64 `json:"distance_miles"`
	Status        string  `json:"status"`
}

// NotificationRecord is the result of a community notification pass.
type NotificationRecord struct {
	IncidentLocation Location         `json:"incident_location"`
	NotifiedCount    int              `json:"notified_count"`
	Notified         []NotifiedMember `json:"notified"`
	Message          string           `json:"message"`
	Timestamp        time.Time        `json:"timestamp"`
	Error            string           `json:"error,omitempty"`
}
