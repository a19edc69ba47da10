// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"context"
	"time"

	"github.com/tomtom215/ursa/internal/agent"
	"github.com/tomtom215/ursa/internal/message"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/store"
	ws "github.com/tomtom215/ursa/internal/websocket"
)

// ThreatMonitor records and serves threats.
type ThreatMonitor interface {
	AddThreat(ctx context.Context, t *models.Threat, reasoning *models.ReasoningEntry) (*models.Threat, error)
	CommitDetection(ctx context.Context, ev *models.DetectionEvent, reasoning *models.ReasoningEntry) (*models.Threat, error)
	ResolveThreat(ctx context.Context, id string) (*models.Threat, error)
	Threat(ctx context.Context, id string) (*models.Threat, error)
	Threats(ctx context.Context, f store.ListFilter) ([]*models.Threat, error)
	Patterns() []*models.Pattern
	Entities() []models.TrackedEntity
}

// CameraDirectory lists cameras.
type CameraDirectory interface {
	Cameras() []models.Camera
	Get(id string) (models.Camera, bool)
}

// CommunityDirectory lists and registers subscribers.
type CommunityDirectory interface {
	Members() []models.CommunityMember
	Add(m models.CommunityMember) (models.CommunityMember, error)
}

// AgentRegistry resolves camera agents.
type AgentRegistry interface {
	Get(cameraID string) (*agent.Agent, error)
	Len() int
}

// ScenarioRunner controls demo scenarios.
type ScenarioRunner interface {
	Start(name string) error
	Stop() (string, bool)
	Active() string
}

// Options are the handler's non-collaborator settings.
type Options struct {
	// AllowedOrigins gates websocket upgrades. "*" allows any origin.
	AllowedOrigins []string
	// TwilioConfigured reports whether real calls can be placed.
	TwilioConfigured bool
	// NATSEnabled reports whether the event bus crosses processes.
	NATSEnabled bool
	// GatherURL is the absolute keypad callback handed to Twilio.
	GatherURL string
	Version   string
}

// Deps are the handler's collaborators. Renderer, Scenarios and Hub may
// be nil.
type Deps struct {
	Monitor   ThreatMonitor
	Cameras   CameraDirectory
	Community CommunityDirectory
	Agents    AgentRegistry
	Scenarios ScenarioRunner
	Renderer  message.Renderer
	Hub       *ws.Hub
}

// Handler serves every API endpoint.
type Handler struct {
	monitor   ThreatMonitor
	cameras   CameraDirectory
	community CommunityDirectory
	agents    AgentRegistry
	scenarios ScenarioRunner
	renderer  message.Renderer
	wsHub     *ws.Hub
	opts      Options
	startTime time.Time
}

// NewHandler creates a handler.
//
//	handler := api.NewHandler(deps, api.Options{AllowedOrigins: cfg.Security.CORSOrigins})
//	router := api.NewRouter(handler, mw)
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(deps Deps, opts Options) *Handler {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Handler{
		monitor:   deps.Monitor,
		cameras:   deps.Cameras,
		community: deps.Community,
		agents:    deps.Agents,
		scenarios: deps.Scenarios,
		renderer:  deps.Renderer,
		wsHub:     deps.Hub,
		opts:      opts,
		startTime: time.Now(),
	}
}
