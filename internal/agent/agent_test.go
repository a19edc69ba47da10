// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package agent

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/directory"
	"github.com/tomtom215/ursa/internal/models"
)

var fixedTime = time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

var testCamera = models.Camera{ID: "cam_001", Lat: 37.7749, Lng: -122.4194, Address: "123 Oak St", Status: models.CameraActive}

func newTestAgent() *Agent {
	return New(testCamera, detection.IntrusionProfile(), WithClock(func() time.Time { return fixedTime }))
}

func prowlerFrame() (detection.FrameSignal, []detection.ObjectDetection) {
	sig := detection.FrameSignal{EdgeDensity: 0.12, MotionConsistency: 0.5, MotionSpeed: 0.05, IntensityStd: 50}
	objects := []detection.ObjectDetection{
		detection.NewObjectDetection(detection.LabelPerson, 0.9, 80, 60, 120, 140),
		detection.NewObjectDetection(detection.LabelCar, 0.9, 60, 60, 200, 200),
	}
	return sig, objects
}

func TestAgent_IngestStampsLocationAndReasons(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	sig, objects := prowlerFrame()

	var ev *models.DetectionEvent
	for i := 0; i < 5; i++ {
		var err error
		ev, err = a.Ingest(context.Background(), sig, objects)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if ev == nil {
		t.Fatal("expected a detection after warm-up")
	}
	if ev.ActivityType != models.ActivityCarProwling {
		t.Errorf("ActivityType = %s", ev.ActivityType)
	}
	if ev.Location == nil || ev.Location.Lat != testCamera.Lat || ev.Location.Lng != testCamera.Lng {
		t.Errorf("Location = %+v, want camera position", ev.Location)
	}

	log := a.Reasoning()
	if len(log) != 1 {
		t.Fatalf("reasoning entries = %d, want 1", len(log))
	}
	entry := log[0]
	if entry.Step != StepAIDetection || entry.CameraID != "cam_001" {
		t.Errorf("entry = %+v", entry)
	}
	if !strings.HasPrefix(entry.Reasoning, "AI analyzed video frame: detected car_prowling") {
		t.Errorf("Reasoning = %q", entry.Reasoning)
	}
	if entry.Conclusion != "AI threat identified: car_prowling" {
		t.Errorf("Conclusion = %q", entry.Conclusion)
	}
	if got := a.LastDetection(); got == nil || got.ActivityType != models.ActivityCarProwling {
		t.Errorf("LastDetection() = %+v", got)
	}
}

func TestAgent_IngestWarmupLeavesLogEmpty(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	sig, objects := prowlerFrame()
	ev, err := a.Ingest(context.Background(), sig, objects)
	if err != nil || ev != nil {
		t.Fatalf("Ingest() = %v, %v; want nil, nil", ev, err)
	}
	if _, ok := a.LastReasoning(); ok {
		t.Error("no reasoning expected during warm-up")
	}
}

func TestAgent_IngestInvalidSignal(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	_, err := a.Ingest(context.Background(), detection.FrameSignal{EdgeDensity: math.NaN()}, nil)

	var ae *detection.AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *AnalysisError", err)
	}
	if ae.CameraID != "cam_001" {
		t.Errorf("CameraID = %q", ae.CameraID)
	}
	if len(a.Reasoning()) != 0 {
		t.Error("failed analysis must not add reasoning")
	}
}

func TestAgent_Simulate(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	ev, err := a.Simulate(context.Background(), models.ActivityCarProwling, 0.82)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if ev.CameraID != "cam_001" || ev.Behavior != "car_prowling" || ev.Confidence != 0.82 {
		t.Errorf("event = %+v", ev)
	}
	if !ev.Timestamp.Equal(fixedTime) {
		t.Errorf("Timestamp = %v", ev.Timestamp)
	}
	if ev.Details.Description != "Individual checking car door handles" || !ev.Details.ActionRequired {
		t.Errorf("Details = %+v", ev.Details)
	}

	entry, ok := a.LastReasoning()
	if !ok {
		t.Fatal("missing reasoning entry")
	}
	want := []string{
		"Motion detected at 37.7749, -122.4194",
		"Behavior pattern matches: car_prowling",
		"Confidence threshold exceeded: 82%",
	}
	if strings.Join(entry.Evidence, "|") != strings.Join(want, "|") {
		t.Errorf("Evidence = %q, want %q", entry.Evidence, want)
	}
	if entry.Reasoning != "Detected car_prowling with 82% confidence" {
		t.Errorf("Reasoning = %q", entry.Reasoning)
	}
	if entry.Step != StepDetection {
		t.Errorf("Step = %q", entry.Step)
	}
}

func TestAgent_SimulateRejects(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	for _, c := range []float64{-0.1, 1.5, math.NaN()} {
		if _, err := a.Simulate(context.Background(), models.ActivityLoitering, c); !errors.Is(err, ErrInvalidConfidence) {
			t.Errorf("Simulate(%v) error = %v, want ErrInvalidConfidence", c, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Simulate(ctx, models.ActivityLoitering, 0.5); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Simulate error = %v", err)
	}
	if len(a.Reasoning()) != 0 {
		t.Error("rejected simulations must not log reasoning")
	}
}

func TestAgent_ReasoningBounded(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	for i := 0; i < MaxReasoningEntries+7; i++ {
		conf := float64(i) / 100
		if _, err := a.Simulate(context.Background(), models.ActivityLoitering, conf); err != nil {
			t.Fatal(err)
		}
	}

	log := a.Reasoning()
	if len(log) != MaxReasoningEntries {
		t.Fatalf("entries = %d, want %d", len(log), MaxReasoningEntries)
	}
	if log[0].Reasoning != "Detected loitering with 7% confidence" {
		t.Errorf("oldest kept = %q, want the 8th simulation", log[0].Reasoning)
	}
}

func TestAgent_ReasoningIsACopy(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	if _, err := a.Simulate(context.Background(), models.ActivityLoitering, 0.5); err != nil {
		t.Fatal(err)
	}
	log := a.Reasoning()
	log[0].Evidence[0] = "tampered"

	if a.Reasoning()[0].Evidence[0] == "tampered" {
		t.Error("Reasoning() exposed internal state")
	}
}

func TestAgent_ConcurrentSimulate(t *testing.T) {
	t.Parallel()

	a := newTestAgent()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = a.Simulate(context.Background(), models.ActivityCarProwling, 0.8)
		}()
	}
	wg.Wait()

	if n := len(a.Reasoning()); n != MaxReasoningEntries {
		t.Errorf("entries = %d, want %d", n, MaxReasoningEntries)
	}
}

func TestCannedDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		activity models.ActivityType
		desc     string
		petType  string
		species  string
	}{
		{models.ActivityLoitering, "Person loitering near vehicles", "", ""},
		{models.ActivityLostPet, "Dog detected without owner nearby", "dog", ""},
		{models.ActivityWildlifeBear, "Bear detected near homes", "", "bear"},
		{"teleporting", "Unknown activity", "", ""},
	}
	for _, tt := range tests {
		d := CannedDetails(tt.activity)
		if d.Description != tt.desc || d.PetType != tt.petType || d.Species != tt.species {
			t.Errorf("CannedDetails(%s) = %+v", tt.activity, d)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	cams := append(directory.DemoCameras(), directory.DemoCameras()[0])
	r := NewRegistry(cams, detection.IntrusionProfile())

	if r.Len() != 5 {
		t.Fatalf("Len() = %d, want 5 (duplicates skipped)", r.Len())
	}
	agents := r.Agents()
	if agents[0].CameraID() != "cam_001" || agents[4].CameraID() != "cam_005" {
		t.Errorf("agent order = %s..%s", agents[0].CameraID(), agents[4].CameraID())
	}

	if a, err := r.Get("cam_003"); err != nil || a.CameraID() != "cam_003" {
		t.Errorf("Get(cam_003) = %v, %v", a, err)
	}
	if _, err := r.Get("cam_404"); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("Get(cam_404) error = %v", err)
	}
}
