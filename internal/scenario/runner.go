// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package scenario

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/ursa/internal/agent"
	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/store"
	"github.com/tomtom215/ursa/internal/websocket"
)

// ErrAlreadyRunning is returned by Start while another scenario plays.
var ErrAlreadyRunning = errors.New("a scenario is already running")

// Agents resolves the camera agent for a step.
type Agents interface {
	Get(cameraID string) (*agent.Agent, error)
}

// Monitor records the scripted detections.
type Monitor interface {
	CommitDetection(ctx context.Context, ev *models.DetectionEvent, reasoning *models.ReasoningEntry) (*models.Threat, error)
	Threats(ctx context.Context, f store.ListFilter) ([]*models.Threat, error)
	Patterns() []*models.Pattern
}

// Broadcaster announces scenario lifecycle events.
type Broadcaster interface {
	BroadcastScenario(messageType string, data websocket.ScenarioData)
}

// Runner plays at most one scenario at a time.
type Runner struct {
	agents  Agents
	monitor Monitor
	hub     Broadcaster
	scale   float64

	mu      sync.Mutex
	baseCtx context.Context
	active  string
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRunner creates a runner. Script delays are multiplied by timeScale;
// zero plays every step immediately.
func NewRunner(agents Agents, monitor Monitor, hub Broadcaster, timeScale float64) *Runner {
	if timeScale < 0 {
		timeScale = 1
	}
	return &Runner{
		agents:  agents,
		monitor: monitor,
		hub:     hub,
		scale:   timeScale,
		baseCtx: context.Background(),
	}
}

// Start plays the named scenario in the background.
func (r *Runner) Start(name string) error {
	script, err := Lookup(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != "" {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(r.baseCtx)
	done := make(chan struct{})
	r.active, r.cancel, r.done = script.Name, cancel, done

	r.hub.BroadcastScenario(websocket.MessageTypeScenarioStarted, websocket.ScenarioData{
		Scenario: script.Name,
		Message:  script.StartMessage,
	})
	logging.Info().Str("scenario", script.Name).Float64("time_scale", r.scale).Msg("Scenario started")

	go func() {
		defer close(done)
		defer r.finish(done)
		r.play(ctx, script)
	}()
	return nil
}

// Stop cancels the running scenario and waits for it to exit. It returns
// the stopped scenario's name, or false when nothing was running.
func (r *Runner) Stop() (string, bool) {
	r.mu.Lock()
	name, cancel, done := r.active, r.cancel, r.done
	r.mu.Unlock()

	if name == "" {
		return "", false
	}
	cancel()
	<-done

	r.hub.BroadcastScenario(websocket.MessageTypeScenarioStopped, websocket.ScenarioData{Scenario: name})
	logging.Info().Str("scenario", name).Msg("Scenario stopped")
	return name, true
}

// Active returns the running scenario's name, or "".
func (r *Runner) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Wait blocks until the running scenario, if any, has finished.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// RunWithContext binds scenarios to ctx and stops any running one when
// ctx is cancelled.
func (r *Runner) RunWithContext(ctx context.Context) error {
	r.mu.Lock()
	r.baseCtx = ctx
	r.mu.Unlock()

	<-ctx.Done()
	r.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (r *Runner) String() string {
	return "scenario-runner"
}

func (r *Runner) finish(done chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == done {
		r.active, r.cancel = "", nil
	}
}

func (r *Runner) play(ctx context.Context, script Script) {
	log := logging.WithComponent("scenario").With().Str("scenario", script.Name).Logger()

	if !r.wait(ctx, script.Warmup) {
		return
	}
	for i, step := range script.Steps {
		if !r.wait(ctx, step.Delay) {
			return
		}
		if err := r.runStep(ctx, step); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Int("step", i).Str("camera_id", step.CameraID).Msg("Scenario step failed")
		}
	}

	if !r.wait(ctx, script.SummaryDelay) {
		return
	}

	active, err := r.monitor.Threats(ctx, store.ListFilter{Status: models.ThreatActive})
	if err != nil {
		log.Warn().Err(err).Msg("Listing threats for scenario summary failed")
	}
	r.hub.BroadcastScenario(websocket.MessageTypeScenarioSummary, websocket.ScenarioData{
		Scenario:        script.Name,
		Message:         script.SummaryMessage,
		ThreatsDetected: len(active),
		PatternsFound:   len(r.monitor.Patterns()),
	})
	log.Info().Int("threats", len(active)).Msg("Scenario finished")
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	a, err := r.agents.Get(step.CameraID)
	if err != nil {
		return err
	}
	ev, err := a.Simulate(ctx, step.Activity, step.Confidence)
	if err != nil {
		return err
	}

	var reasoning *models.ReasoningEntry
	if entry, ok := a.LastReasoning(); ok {
		reasoning = &entry
	}
	_, err = r.monitor.CommitDetection(ctx, ev, reasoning)
	return err
}

// wait sleeps for the scaled d and reports whether ctx is still live.
func (r *Runner) wait(ctx context.Context, d time.Duration) bool {
	scaled := time.Duration(float64(d) * r.scale)
	if scaled <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(scaled)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
