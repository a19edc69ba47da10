// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Detection DetectionConfig `koanf:"detection"`
	Dispatch  DispatchConfig  `koanf:"dispatch"`
	Twilio    TwilioConfig    `koanf:"twilio"`
	Messages  MessagesConfig  `koanf:"messages"`
	Events    EventsConfig    `koanf:"events"`
	Store     StoreConfig     `koanf:"store"`
	Cameras   []models.Camera `koanf:"cameras"`
	Community CommunityConfig `koanf:"community"`
	Scenario  ScenarioConfig  `koanf:"scenario"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DetectionConfig selects the scoring profile.
type DetectionConfig struct {
	// Profile is "intrusion" or "wildlife".
	Profile string `koanf:"profile"`
	// WarmupSamples is the number of frames a camera observes before it
	// reports detections.
	WarmupSamples int `koanf:"warmup_samples"`
}

// DispatchConfig controls the dispatch worker.
type DispatchConfig struct {
	QueueSize            int     `koanf:"queue_size"`
	CameraRadiusMiles    float64 `koanf:"camera_radius_miles"`
	CommunityRadiusMiles float64 `koanf:"community_radius_miles"`
	EscalationThreshold  float64 `koanf:"escalation_threshold"`
}

// TwilioConfig holds voice and SMS settings. Calls and texts are simulated
// when AccountSID, AuthToken or FromNumber is empty.
type TwilioConfig struct {
	AccountSID           string  `koanf:"account_sid"`
	AuthToken            string  `koanf:"auth_token"`
	FromNumber           string  `koanf:"from_number"`
	PoliceNumber         string  `koanf:"police_number"`
	AnimalControlNumber  string  `koanf:"animal_control_number"`
	FireDepartmentNumber string  `koanf:"fire_department_number"`
	WildlifeNumber       string  `koanf:"wildlife_number"`
	BaseURL              string  `koanf:"base_url"`
	SMSPerSecond         float64 `koanf:"sms_per_second"`
	SMSBurst             int     `koanf:"sms_burst"`
}

// Configured reports whether live Twilio credentials are present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

// MessagesConfig controls call and SMS wording.
type MessagesConfig struct {
	// GeminiAPIKey enables generated wording. Templates are used without it.
	GeminiAPIKey string        `koanf:"gemini_api_key"`
	Model        string        `koanf:"model"`
	Timeout      time.Duration `koanf:"timeout"`
	// Timezone is an IANA name used for times in messages.
	Timezone string `koanf:"timezone"`
}

// EventsConfig selects the event bus transport.
type EventsConfig struct {
	NATSEnabled    bool   `koanf:"nats_enabled"`
	NATSURL        string `koanf:"nats_url"`
	DetectionTopic string `koanf:"detection_topic"`
	ThreatTopic    string `koanf:"threat_topic"`
	QueueGroup     string `koanf:"queue_group"`
}

// StoreConfig selects the threat store.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// CommunityConfig lists alert subscribers.
type CommunityConfig struct {
	Members []models.CommunityMember `koanf:"members"`
	// DemoPhone seeds a single member when Members is empty. Defaults to
	// the police number.
	DemoPhone string `koanf:"demo_phone"`
}

// ScenarioConfig controls the demo scenario runner.
type ScenarioConfig struct {
	Enabled bool `koanf:"enabled"`
	// TimeScale multiplies scripted delays. 0.5 runs twice as fast.
	TimeScale float64 `koanf:"time_scale"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// CommunityMembers returns the configured members, or the demo member when
// none are configured.
func (c *Config) CommunityMembers() []models.CommunityMember {
	if len(c.Community.Members) > 0 {
		return c.Community.Members
	}
	phone := c.Community.DemoPhone
	if phone == "" {
		phone = c.Twilio.PoliceNumber
	}
	if phone == "" {
		return nil
	}
	return []models.CommunityMember{directory.DemoMember(phone)}
}

// Location returns the configured message time zone, falling back to UTC.
func (m MessagesConfig) Location() *time.Location {
	if m.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
