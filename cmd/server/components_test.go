// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/ursa/internal/config"
	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/message"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 0, Timeout: 5 * time.Second, Environment: "development"},
		Detection: config.DetectionConfig{Profile: "intrusion", WarmupSamples: 5},
		Dispatch: config.DispatchConfig{
			QueueSize:            8,
			CameraRadiusMiles:    5,
			CommunityRadiusMiles: 50,
			EscalationThreshold:  0.75,
		},
		Twilio:   config.TwilioConfig{PoliceNumber: directory.DefaultPoliceNumber, BaseURL: "http://localhost:8000", SMSPerSecond: 1, SMSBurst: 5},
		Messages: config.MessagesConfig{Timezone: "UTC"},
		Events:   config.EventsConfig{DetectionTopic: "test.cmd.detections", ThreatTopic: "test.cmd.threats", QueueGroup: "ursa"},
		Store:    config.StoreConfig{Backend: "memory"},
		Cameras:  directory.DemoCameras(),
		Scenario: config.ScenarioConfig{Enabled: true, TimeScale: 0},
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}, RateLimitDisabled: true},
	}
}

func TestBuildComponents(t *testing.T) {
	comps, err := buildComponents(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	t.Cleanup(comps.close)

	if comps.scenarios == nil {
		t.Error("scenario runner not built")
	}
	if n := len(comps.community.Members()); n != 1 {
		t.Errorf("community members = %d, want demo member", n)
	}
	if comps.agents.Len() != 5 {
		t.Errorf("agents = %d", comps.agents.Len())
	}

	rec := httptest.NewRecorder()
	comps.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBuildComponents_ScenariosDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Scenario.Enabled = false
	comps, err := buildComponents(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(comps.close)

	rec := httptest.NewRecorder()
	comps.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scenarios/car_prowler/start", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("start = %d, want 503", rec.Code)
	}
}

func TestBuildComponents_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown store", func(c *config.Config) { c.Store.Backend = "etcd" }},
		{"unknown profile", func(c *config.Config) { c.Detection.Profile = "sonar" }},
		{"no cameras", func(c *config.Config) { c.Cameras = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := buildComponents(context.Background(), cfg); err == nil {
				t.Error("buildComponents() succeeded, want error")
			}
		})
	}
}

func TestBuildRenderer_Templates(t *testing.T) {
	if _, ok := buildRenderer(context.Background(), testConfig()).(*message.Templates); !ok {
		t.Error("buildRenderer() without a key should return templates")
	}
}
