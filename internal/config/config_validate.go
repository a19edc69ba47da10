// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/store"
)

// Validate checks that configuration values are present and in range.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	if err := c.validateTwilio(); err != nil {
		return err
	}
	if err := c.validateMessages(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateCameras(); err != nil {
		return err
	}
	if err := c.validateScenario(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateDetection() error {
	if _, err := detection.ProfileByName(c.Detection.Profile); err != nil {
		return fmt.Errorf("DETECTION_PROFILE: %w", err)
	}
	if c.Detection.WarmupSamples < 0 {
		return fmt.Errorf("DETECTION_WARMUP must not be negative")
	}
	return nil
}

func (c *Config) validateDispatch() error {
	if c.Dispatch.QueueSize < 1 {
		return fmt.Errorf("DISPATCH_QUEUE_SIZE must be at least 1")
	}
	if c.Dispatch.CameraRadiusMiles <= 0 {
		return fmt.Errorf("CAMERA_RADIUS_MILES must be positive")
	}
	if c.Dispatch.CommunityRadiusMiles <= 0 {
		return fmt.Errorf("COMMUNITY_RADIUS_MILES must be positive")
	}
	if c.Dispatch.EscalationThreshold < 0 || c.Dispatch.EscalationThreshold > 1 {
		return fmt.Errorf("ESCALATION_THRESHOLD must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTwilio() error {
	t := c.Twilio
	numbers := map[string]string{
		"TWILIO_PHONE_NUMBER":    t.FromNumber,
		"POLICE_NUMBER":          t.PoliceNumber,
		"ANIMAL_CONTROL_NUMBER":  t.AnimalControlNumber,
		"FIRE_DEPARTMENT_NUMBER": t.FireDepartmentNumber,
		"WILDLIFE_NUMBER":        t.WildlifeNumber,
	}
	for name, number := range numbers {
		if number == "" {
			continue
		}
		if _, err := directory.NormalizeE164(number); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if t.BaseURL != "" {
		if err := validateHTTPURL(t.BaseURL, "BASE_URL"); err != nil {
			return err
		}
	}
	if t.SMSPerSecond <= 0 {
		return fmt.Errorf("TWILIO_SMS_RATE must be positive")
	}
	if t.SMSBurst < 1 {
		return fmt.Errorf("TWILIO_SMS_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateMessages() error {
	if c.Messages.Timeout <= 0 {
		return fmt.Errorf("MESSAGE_TIMEOUT must be positive")
	}
	if c.Messages.Timezone != "" {
		if _, err := time.LoadLocation(c.Messages.Timezone); err != nil {
			return fmt.Errorf("MESSAGE_TIMEZONE: %w", err)
		}
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.NATSEnabled {
		return nil
	}
	if err := validateNATSURL(c.Events.NATSURL); err != nil {
		return fmt.Errorf("NATS_URL: %w", err)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or badger, got %q", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateCameras() error {
	if len(c.Cameras) == 0 {
		return fmt.Errorf("at least one camera must be configured")
	}
	seen := make(map[string]bool, len(c.Cameras))
	for _, cam := range c.Cameras {
		if cam.ID == "" {
			return fmt.Errorf("camera id is required")
		}
		if seen[cam.ID] {
			return fmt.Errorf("duplicate camera id %q", cam.ID)
		}
		seen[cam.ID] = true
	}
	return nil
}

func (c *Config) validateScenario() error {
	if c.Scenario.TimeScale < 0 {
		return fmt.Errorf("SCENARIO_TIME_SCALE must not be negative")
	}
	return nil
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins such as CORS_ORIGINS=https://ursa.example.com")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether the CORS setting deserves a startup
// warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}
