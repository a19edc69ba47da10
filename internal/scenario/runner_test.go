// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package scenario

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/ursa/internal/agent"
	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/store"
	"github.com/tomtom215/ursa/internal/websocket"
)

type fakeMonitor struct {
	mu        sync.Mutex
	events    []*models.DetectionEvent
	reasoning []*models.ReasoningEntry
}

func (m *fakeMonitor) CommitDetection(_ context.Context, ev *models.DetectionEvent, r *models.ReasoningEntry) (*models.Threat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	m.reasoning = append(m.reasoning, r)
	return &models.Threat{ID: "t", Type: string(ev.ActivityType)}, nil
}

func (m *fakeMonitor) Threats(context.Context, store.ListFilter) ([]*models.Threat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return make([]*models.Threat, len(m.events)), nil
}

func (m *fakeMonitor) Patterns() []*models.Pattern {
	return []*models.Pattern{{Count: 3}}
}

func (m *fakeMonitor) committed() []*models.DetectionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.DetectionEvent(nil), m.events...)
}

type scenarioEvent struct {
	kind string
	data websocket.ScenarioData
}

type fakeHub struct {
	mu     sync.Mutex
	events []scenarioEvent
}

func (h *fakeHub) BroadcastScenario(kind string, data websocket.ScenarioData) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, scenarioEvent{kind, data})
}

func (h *fakeHub) kinds() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.kind)
	}
	return out
}

func newRunner(cams []models.Camera, scale float64) (*Runner, *fakeMonitor, *fakeHub) {
	mon := &fakeMonitor{}
	hub := &fakeHub{}
	agents := agent.NewRegistry(cams, detection.IntrusionProfile())
	return NewRunner(agents, mon, hub, scale), mon, hub
}

func TestLookup(t *testing.T) {
	t.Parallel()

	s, err := Lookup(CarProwler)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(s.Steps) != 3 || s.Steps[1].CameraID != "cam_002" || s.Steps[1].Delay != 8*time.Second {
		t.Errorf("car prowler steps = %+v", s.Steps)
	}

	s.Steps[0].CameraID = "tampered"
	again, _ := Lookup(CarProwler)
	if again.Steps[0].CameraID != "cam_001" {
		t.Error("Lookup returned a shared step slice")
	}

	if _, err := Lookup("alien_invasion"); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("unknown scenario error = %v", err)
	}
	if names := Names(); len(names) != 3 || names[0] != CarProwler {
		t.Errorf("Names() = %v", names)
	}
}

func TestRunner_PlaysCarProwler(t *testing.T) {
	t.Parallel()

	r, mon, hub := newRunner(directory.DemoCameras(), 0)
	if err := r.Start(CarProwler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Wait()

	events := mon.committed()
	want := []struct {
		cam  string
		conf float64
	}{{"cam_001", 0.75}, {"cam_002", 0.82}, {"cam_003", 0.88}}
	if len(events) != len(want) {
		t.Fatalf("commits = %d, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].CameraID != w.cam || events[i].Confidence != w.conf || events[i].ActivityType != models.ActivityCarProwling {
			t.Errorf("commit %d = %+v", i, events[i])
		}
		if mon.reasoning[i] == nil || mon.reasoning[i].CameraID != w.cam {
			t.Errorf("commit %d reasoning = %+v", i, mon.reasoning[i])
		}
	}

	kinds := hub.kinds()
	if len(kinds) != 2 || kinds[0] != websocket.MessageTypeScenarioStarted || kinds[1] != websocket.MessageTypeScenarioSummary {
		t.Fatalf("broadcasts = %v", kinds)
	}
	summary := hub.events[1].data
	if summary.ThreatsDetected != 3 || summary.PatternsFound != 1 || summary.Message != "Pattern detected: Car prowler moving through neighborhood" {
		t.Errorf("summary = %+v", summary)
	}
	if r.Active() != "" {
		t.Errorf("Active() = %q after finishing", r.Active())
	}
}

func TestRunner_LostPetSpansCameras(t *testing.T) {
	t.Parallel()

	r, mon, _ := newRunner(directory.DemoCameras(), 0)
	if err := r.Start(LostPet); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	events := mon.committed()
	if len(events) != 2 || events[0].CameraID != "cam_001" || events[1].CameraID != "cam_004" {
		t.Fatalf("commits = %+v", events)
	}
	if events[1].Details.PetType != "dog" {
		t.Errorf("PetType = %q", events[1].Details.PetType)
	}
}

func TestRunner_SkipsFailedSteps(t *testing.T) {
	t.Parallel()

	cams := directory.DemoCameras()
	r, mon, hub := newRunner([]models.Camera{cams[0], cams[2]}, 0)
	if err := r.Start(CarProwler); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	if n := len(mon.committed()); n != 2 {
		t.Errorf("commits = %d, want 2", n)
	}
	if kinds := hub.kinds(); kinds[len(kinds)-1] != websocket.MessageTypeScenarioSummary {
		t.Errorf("broadcasts = %v, want a summary", kinds)
	}
}

func TestRunner_StopCancels(t *testing.T) {
	t.Parallel()

	r, mon, hub := newRunner(directory.DemoCameras(), 1)
	if err := r.Start(CarProwler); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(LostPet); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v", err)
	}
	if r.Active() != CarProwler {
		t.Errorf("Active() = %q", r.Active())
	}

	name, ok := r.Stop()
	if !ok || name != CarProwler {
		t.Fatalf("Stop() = %q, %v", name, ok)
	}
	if n := len(mon.committed()); n != 0 {
		t.Errorf("commits = %d, want 0 during warm-up", n)
	}
	kinds := hub.kinds()
	if kinds[len(kinds)-1] != websocket.MessageTypeScenarioStopped {
		t.Errorf("broadcasts = %v", kinds)
	}

	if _, ok := r.Stop(); ok {
		t.Error("Stop() with nothing running reported true")
	}
	if err := r.Start(LostPet); err != nil {
		t.Errorf("Start() after Stop error = %v", err)
	}
	r.Stop()
}

func TestRunner_RunWithContextStops(t *testing.T) {
	t.Parallel()

	r, _, _ := newRunner(directory.DemoCameras(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.RunWithContext(ctx) }()

	if err := r.Start(Wildlife); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
	r.Wait()
	if r.Active() != "" {
		t.Errorf("Active() = %q after shutdown", r.Active())
	}
}

func TestRunner_UnknownScenario(t *testing.T) {
	t.Parallel()

	r, _, hub := newRunner(directory.DemoCameras(), 0)
	if err := r.Start("nope"); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("Start() error = %v", err)
	}
	if len(hub.kinds()) != 0 {
		t.Error("unknown scenario should not broadcast")
	}
}
