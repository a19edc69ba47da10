// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/ursa/internal/agent"
	"github.com/tomtom215/ursa/internal/api"
	"github.com/tomtom215/ursa/internal/config"
	"github.com/tomtom215/ursa/internal/correlation"
	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/dispatch"
	"github.com/tomtom215/ursa/internal/eventbus"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/message"
	"github.com/tomtom215/ursa/internal/monitor"
	"github.com/tomtom215/ursa/internal/notify"
	"github.com/tomtom215/ursa/internal/scenario"
	"github.com/tomtom215/ursa/internal/severity"
	"github.com/tomtom215/ursa/internal/store"
	"github.com/tomtom215/ursa/internal/supervisor"
	"github.com/tomtom215/ursa/internal/supervisor/services"
	ws "github.com/tomtom215/ursa/internal/websocket"
)

// components holds everything main wires into the supervisor tree.
type components struct {
	store       store.ThreatStore
	cameras     *directory.Cameras
	community   *directory.Community
	hub         *ws.Hub
	bus         *eventbus.Bus
	coordinator *dispatch.Coordinator
	monitor     *monitor.Monitor
	agents      *agent.Registry
	scenarios   *scenario.Runner
	server      *http.Server
}

func buildComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	c := &components{}

	st, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	c.store = st

	if c.cameras, err = directory.NewCameras(cfg.Cameras); err != nil {
		c.close()
		return nil, fmt.Errorf("load cameras: %w", err)
	}
	if c.community, err = directory.NewCommunity(cfg.CommunityMembers()); err != nil {
		c.close()
		return nil, fmt.Errorf("load community: %w", err)
	}

	renderer := buildRenderer(ctx, cfg)
	twilio := notify.NewService(notify.Config{
		AccountSID:   cfg.Twilio.AccountSID,
		AuthToken:    cfg.Twilio.AuthToken,
		From:         cfg.Twilio.FromNumber,
		BaseURL:      cfg.Twilio.BaseURL,
		SMSPerSecond: cfg.Twilio.SMSPerSecond,
		SMSBurst:     cfg.Twilio.SMSBurst,
	})

	c.hub = ws.NewHub()
	c.coordinator = dispatch.NewCoordinator(dispatch.Config{
		QueueSize:         cfg.Dispatch.QueueSize,
		CameraRadiusMiles: cfg.Dispatch.CameraRadiusMiles,
	}, dispatch.Deps{
		Analyzer: severity.Policy{EscalationThreshold: cfg.Dispatch.EscalationThreshold},
		Cameras:  c.cameras,
		Caller: notify.NewCaller(twilio, renderer, notify.Numbers{
			Police:         cfg.Twilio.PoliceNumber,
			AnimalControl:  cfg.Twilio.AnimalControlNumber,
			FireDepartment: cfg.Twilio.FireDepartmentNumber,
			Wildlife:       cfg.Twilio.WildlifeNumber,
		}),
		Community:   notify.NewCommunity(twilio, c.community, renderer, cfg.Dispatch.CommunityRadiusMiles),
		Store:       c.store,
		OnProcessed: c.hub.BroadcastThreatUpdated,
	})

	busCfg := eventbus.DefaultConfig()
	busCfg.NATSEnabled = cfg.Events.NATSEnabled
	busCfg.NATSURL = cfg.Events.NATSURL
	busCfg.DetectionTopic = cfg.Events.DetectionTopic
	busCfg.ThreatTopic = cfg.Events.ThreatTopic
	busCfg.QueueGroup = cfg.Events.QueueGroup
	if c.bus, err = eventbus.New(busCfg); err != nil {
		c.close()
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	c.monitor, err = monitor.New(monitor.Deps{
		Store:      c.store,
		Cameras:    c.cameras,
		Dispatcher: c.coordinator,
		Correlator: correlation.NewCorrelator(c.cameras),
		Tracker:    correlation.NewTracker(),
		Hub:        c.hub,
		Bus:        c.bus,
	})
	if err != nil {
		c.close()
		return nil, err
	}
	c.monitor.Subscribe(c.bus)

	profile, err := detection.ProfileByName(cfg.Detection.Profile)
	if err != nil {
		c.close()
		return nil, err
	}
	c.agents = agent.NewRegistry(c.cameras.Cameras(), profile, agent.WithWarmup(cfg.Detection.WarmupSamples))

	deps := api.Deps{
		Monitor:   c.monitor,
		Cameras:   c.cameras,
		Community: c.community,
		Agents:    c.agents,
		Renderer:  renderer,
		Hub:       c.hub,
	}
	if cfg.Scenario.Enabled {
		c.scenarios = scenario.NewRunner(c.agents, c.monitor, c.hub, cfg.Scenario.TimeScale)
		deps.Scenarios = c.scenarios
	}

	handler := api.NewHandler(deps, api.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		TwilioConfigured: twilio.Configured(),
		NATSEnabled:      cfg.Events.NATSEnabled,
		GatherURL:        cfg.Twilio.BaseURL + notify.GatherPath,
		Version:          version,
	})
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	c.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, mw).SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	return c, nil
}

// buildRenderer returns Gemini wording when a key is configured, with the
// templates as its fallback.
func buildRenderer(ctx context.Context, cfg *config.Config) message.Renderer {
	templates := message.NewTemplates(cfg.Messages.Location())
	if cfg.Messages.GeminiAPIKey == "" {
		logging.Info().Msg("Gemini API key not set, using message templates")
		return templates
	}
	gemini, err := message.NewGemini(ctx, message.GeminiConfig{
		APIKey:  cfg.Messages.GeminiAPIKey,
		Model:   cfg.Messages.Model,
		Timeout: cfg.Messages.Timeout,
	}, templates)
	if err != nil {
		logging.Warn().Err(err).Msg("Gemini client unavailable, using message templates")
		return templates
	}
	logging.Info().Str("model", cfg.Messages.Model).Msg("Gemini message generation enabled")
	return gemini
}

// register adds every long-running component to its supervisor layer.
func (c *components) register(tree *supervisor.SupervisorTree, shutdownTimeout time.Duration) {
	tree.AddDataService(services.NewRunnerService("dispatch-coordinator", c.coordinator))

	tree.AddMessagingService(services.NewRunnerService("event-bus", c.bus))
	tree.AddMessagingService(services.NewRunnerService("websocket-hub", c.hub))
	if c.scenarios != nil {
		tree.AddMessagingService(services.NewRunnerService("scenario-runner", c.scenarios))
	}

	tree.AddAPIService(services.NewHTTPServerService(c.server, shutdownTimeout))
}

// seedLog reports the loaded topology once at startup.
func (c *components) seedLog(cfg *config.Config) {
	logging.Info().
		Int("cameras", len(c.cameras.Cameras())).
		Int("community_members", len(c.community.Members())).
		Str("store", cfg.Store.Backend).
		Str("profile", cfg.Detection.Profile).
		Bool("nats", cfg.Events.NATSEnabled).
		Bool("scenarios", c.scenarios != nil).
		Msg("Components initialized")
}

// close releases resources that outlive the supervisor tree.
func (c *components) close() {
	if c.coordinator != nil {
		c.coordinator.WaitOverflow()
	}
	if c.bus != nil {
		if err := c.bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing threat store")
		}
	}
}
