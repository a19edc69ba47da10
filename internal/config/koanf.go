// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/ursa/internal/directory"
)

// DefaultConfigPaths lists the locations searched for a config file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ursa/config.yaml",
	"/etc/ursa/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Detection: DetectionConfig{
			Profile:       "intrusion",
			WarmupSamples: 5,
		},
		Dispatch: DispatchConfig{
			QueueSize:            256,
			CameraRadiusMiles:    5,
			CommunityRadiusMiles: 50,
			EscalationThreshold:  0.75,
		},
		Twilio: TwilioConfig{
			PoliceNumber: directory.DefaultPoliceNumber,
			BaseURL:      "http://localhost:8000",
			SMSPerSecond: 1,
			SMSBurst:     5,
		},
		Messages: MessagesConfig{
			Model:    "gemini-2.5-flash",
			Timeout:  10 * time.Second,
			Timezone: "UTC",
		},
		Events: EventsConfig{
			NATSEnabled:    false,
			NATSURL:        "nats://127.0.0.1:4222",
			DetectionTopic: "ursa.detections",
			ThreatTopic:    "ursa.threats",
			QueueGroup:     "ursa",
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "/data/ursa",
		},
		Cameras: directory.DemoCameras(),
		Scenario: ScenarioConfig{
			Enabled:   true,
			TimeScale: 1,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration using koanf with layered sources.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":      "server.host",
	"http_port":      "server.port",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Detection
	"detection_profile": "detection.profile",
	"detection_warmup":  "detection.warmup_samples",

	// Dispatch
	"dispatch_queue_size":    "dispatch.queue_size",
	"camera_radius_miles":    "dispatch.camera_radius_miles",
	"community_radius_miles": "dispatch.community_radius_miles",
	"escalation_threshold":   "dispatch.escalation_threshold",

	// Twilio
	"twilio_account_sid":     "twilio.account_sid",
	"twilio_auth_token":      "twilio.auth_token",
	"twilio_phone_number":    "twilio.from_number",
	"police_number":          "twilio.police_number",
	"animal_control_number":  "twilio.animal_control_number",
	"fire_department_number": "twilio.fire_department_number",
	"wildlife_number":        "twilio.wildlife_number",
	"base_url":               "twilio.base_url",
	"twilio_sms_rate":        "twilio.sms_per_second",
	"twilio_sms_burst":       "twilio.sms_burst",

	// Messages
	"gemini_api_key":   "messages.gemini_api_key",
	"gemini_model":     "messages.model",
	"message_timeout":  "messages.timeout",
	"message_timezone": "messages.timezone",

	// Events
	"nats_enabled":           "events.nats_enabled",
	"nats_url":               "events.nats_url",
	"nats_queue_group":       "events.queue_group",
	"events_detection_topic": "events.detection_topic",
	"events_threat_topic":    "events.threat_topic",

	// Store
	"store_backend": "store.backend",
	"store_path":    "store.path",

	// Community
	"community_demo_phone": "community.demo_phone",

	// Scenario
	"scenarios_enabled":   "scenario.enabled",
	"scenario_time_scale": "scenario.time_scale",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - TWILIO_PHONE_NUMBER -> twilio.from_number
//   - POLICE_NUMBER -> twilio.police_number
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
