// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Detection
	FramesAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frames_analyzed_total",
			Help: "Total number of frames evaluated by camera analyzers",
		},
		[]string{"camera_id"},
	)

	AnalysisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_failures_total",
			Help: "Frames that produced no detection because analysis failed",
		},
		[]string{"stage"}, // "signal", "metrics", "objects", "panic"
	)

	FusionScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fusion_score",
			Help:    "Distribution of fused suspicion scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"profile"},
	)

	DetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detections_total",
			Help: "Detections emitted by activity type",
		},
		[]string{"activity_type"},
	)

	// Threats and correlation
	ThreatsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threats_total",
			Help: "Threats analyzed by severity and category",
		},
		[]string{"severity", "category"},
	)

	ActiveThreats = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "threats_active",
			Help: "Threats currently in active status",
		},
	)

	PatternsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patterns_total",
			Help: "Correlation results by outcome",
		},
		[]string{"outcome"}, // "created", "merged", "duplicate"
	)

	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pattern_predictions_total",
			Help: "Next-camera predictions attached to patterns",
		},
	)

	CrossCameraEntities = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracked_entities_cross_camera_total",
			Help: "Sightings that confirmed a tracked entity on two or more cameras",
		},
	)

	// Dispatch
	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Threats waiting for the dispatch worker",
		},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_duration_seconds",
			Help:    "Time to analyze and dispatch one threat",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	DispatchOverflow = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_overflow_total",
			Help: "Threats handed to a background goroutine because the queue was full",
		},
	)

	DispatchDuplicates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_duplicates_total",
			Help: "Dispatch actions skipped because the ledger already held the threat",
		},
		[]string{"action"}, // "authority", "community"
	)

	// Outbound
	OutboundCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_calls_total",
			Help: "Authority calls by recipient and status",
		},
		[]string{"recipient", "status"},
	)

	OutboundSMS = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_sms_total",
			Help: "SMS messages by status",
		},
		[]string{"status"},
	)

	MessageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_renders_total",
			Help: "Rendered notification messages by kind and source",
		},
		[]string{"kind", "source"}, // source: "genai", "template"
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failure count",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event bus
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published to the event bus",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Events consumed from the event bus by result",
		},
		[]string{"topic", "result"}, // "processed", "parse_failed"
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "In-flight API requests",
		},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Connected WebSocket clients",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Messages broadcast to WebSocket clients by type",
		},
		[]string{"type"},
	)

	WSSlowClients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_clients_dropped_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)
)

// RecordFrameAnalyzed counts one evaluated frame and its fused score.
func RecordFrameAnalyzed(cameraID, profile string, score float64) {
	FramesAnalyzed.WithLabelValues(cameraID).Inc()
	FusionScore.WithLabelValues(profile).Observe(score)
}

// RecordAnalysisFailure counts a frame dropped by fail-open analysis.
func RecordAnalysisFailure(stage string) {
	AnalysisFailures.WithLabelValues(stage).Inc()
}

// RecordDetection counts an emitted detection.
func RecordDetection(activityType string) {
	DetectionsTotal.WithLabelValues(activityType).Inc()
}

// RecordThreatAnalyzed counts an analyzed threat.
func RecordThreatAnalyzed(severity, category string) {
	ThreatsTotal.WithLabelValues(severity, category).Inc()
}

// RecordPattern counts a correlation result.
func RecordPattern(merged bool) {
	if merged {
		PatternsTotal.WithLabelValues("merged").Inc()
		return
	}
	PatternsTotal.WithLabelValues("created").Inc()
}

// RecordPatternDuplicate counts a redelivered detection that was skipped.
func RecordPatternDuplicate() {
	PatternsTotal.WithLabelValues("duplicate").Inc()
}

// RecordDispatch observes one completed dispatch.
func RecordDispatch(duration time.Duration) {
	DispatchDuration.Observe(duration.Seconds())
}

// RecordDuplicate counts a ledger no-op.
func RecordDuplicate(action string) {
	DispatchDuplicates.WithLabelValues(action).Inc()
}

// RecordCall counts an outbound authority call.
func RecordCall(recipient, status string) {
	OutboundCalls.WithLabelValues(recipient, status).Inc()
}

// RecordSMS counts an outbound SMS.
func RecordSMS(status string) {
	OutboundSMS.WithLabelValues(status).Inc()
}

// RecordMessageRender counts a rendered message by where its text came from.
func RecordMessageRender(kind, source string) {
	MessageRenders.WithLabelValues(kind, source).Inc()
}

// RecordEventPublished counts an event published on topic.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventConsumed counts an event consumed from topic.
func RecordEventConsumed(topic, result string) {
	EventsConsumed.WithLabelValues(topic, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
