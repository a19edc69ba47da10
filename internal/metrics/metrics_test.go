// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFrameAnalyzed(t *testing.T) {
	before := testutil.ToFloat64(FramesAnalyzed.WithLabelValues("cam_test_frames"))
	RecordFrameAnalyzed("cam_test_frames", "intrusion", 0.42)
	RecordFrameAnalyzed("cam_test_frames", "intrusion", 0.91)

	if got := testutil.ToFloat64(FramesAnalyzed.WithLabelValues("cam_test_frames")) - before; got != 2 {
		t.Errorf("frames analyzed delta = %v, want 2", got)
	}
}

func TestRecordPattern(t *testing.T) {
	created := testutil.ToFloat64(PatternsTotal.WithLabelValues("created"))
	merged := testutil.ToFloat64(PatternsTotal.WithLabelValues("merged"))

	RecordPattern(false)
	RecordPattern(true)
	RecordPattern(true)

	if d := testutil.ToFloat64(PatternsTotal.WithLabelValues("created")) - created; d != 1 {
		t.Errorf("created delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(PatternsTotal.WithLabelValues("merged")) - merged; d != 2 {
		t.Errorf("merged delta = %v, want 2", d)
	}
}

func TestRecordDuplicate(t *testing.T) {
	before := testutil.ToFloat64(DispatchDuplicates.WithLabelValues("authority"))
	RecordDuplicate("authority")
	if d := testutil.ToFloat64(DispatchDuplicates.WithLabelValues("authority")) - before; d != 1 {
		t.Errorf("duplicates delta = %v, want 1", d)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		method   string
		endpoint string
		status   string
	}{
		{"GET", "/api/v1/threats", "200"},
		{"POST", "/api/v1/threats", "201"},
		{"GET", "/api/v1/threats/{id}", "404"},
	}
	for _, tt := range tests {
		before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
		RecordAPIRequest(tt.method, tt.endpoint, tt.status, 15*time.Millisecond)
		after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
		if after-before != 1 {
			t.Errorf("%s %s: delta = %v, want 1", tt.method, tt.endpoint, after-before)
		}
	}
}

func TestTrackActiveRequestLifecycle(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if testutil.ToFloat64(APIActiveRequests) != start+1 {
		t.Error("active requests should increase")
	}
	TrackActiveRequest(false)
	if testutil.ToFloat64(APIActiveRequests) != start {
		t.Error("active requests should return to start")
	}
}

func TestConcurrentRecording(t *testing.T) {
	before := testutil.ToFloat64(OutboundSMS.WithLabelValues("concurrent"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordSMS("concurrent")
			RecordCall("police", "simulated")
			RecordEventPublished("detections")
		}()
	}
	wg.Wait()

	if d := testutil.ToFloat64(OutboundSMS.WithLabelValues("concurrent")) - before; d != 50 {
		t.Errorf("sms delta = %v, want 50", d)
	}
}

func TestMetricsRegistered(t *testing.T) {
	RecordDetection("car_prowling")
	RecordThreatAnalyzed("HIGH", "car_prowling")
	RecordDispatch(time.Second)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"detections_total", "threats_total", "dispatch_duration_seconds"} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}
