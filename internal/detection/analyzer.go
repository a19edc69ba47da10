// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// Analysis failure stages.
const (
	StageSignal  = "signal"
	StageMetrics = "metrics"
	StageObjects = "objects"
	StagePanic   = "panic"
)

// ErrInvalidSignal is wrapped when a FrameSignal carries NaN or Inf values.
var ErrInvalidSignal = errors.New("frame signal contains non-finite values")

// AnalysisError reports why a frame produced no detection. The camera loop
// logs it and moves on to the next frame.
type AnalysisError struct {
	CameraID string
	Stage    string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed for camera %s at %s: %v", e.CameraID, e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Analyzer evaluates frames for one camera.
type Analyzer struct {
	cameraID   string
	history    *History
	classifier *Classifier
	warmup     int
	now        func() time.Time
}

// AnalyzerOption customizes an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) { a.now = now }
}

// WithWarmup sets how many activity samples must be recorded before any
// detection can be emitted. Values below one are ignored.
func WithWarmup(samples int) AnalyzerOption {
	return func(a *Analyzer) {
		if samples > 0 {
			a.warmup = samples
		}
	}
}

// NewAnalyzer creates an analyzer with its own empty history.
func NewAnalyzer(cameraID string, p Profile, fp FireProfile, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		cameraID:   cameraID,
		history:    NewHistory(),
		classifier: NewClassifier(p, fp),
		warmup:     minSamples,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// History exposes the analyzer's rolling buffers.
func (a *Analyzer) History() *History {
	return a.history
}

// Evaluate records the frame in history and returns a detection, or nil
// when nothing was detected. Errors are either the context error or an
// *AnalysisError, and always come with a nil detection.
func (a *Analyzer) Evaluate(ctx context.Context, signal FrameSignal, objects []ObjectDetection) (ev *models.DetectionEvent, err error) {
	defer a.recoverInto(&ev, &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !signal.finite() {
		return nil, a.fail(StageSignal, ErrInvalidSignal)
	}

	now := a.now()
	frame := FilterObjects(now, objects)
	a.history.RecordActivity(signal.EdgeDensity)
	a.history.RecordObjects(frame)

	activity := a.history.Activity(HistoryCapacity)
	features := Features{
		Signal:      signal,
		Movement:    ClassifyMovement(activity),
		Persistence: PersistenceRatio(activity),
		Objects:     Summarize(frame, a.history.ObjectFrames(HistoryCapacity)),
	}

	class, score, ok := a.classifier.Classify(features)
	metrics.RecordFrameAnalyzed(a.cameraID, string(a.classifier.Profile().Domain), score)

	if a.history.Samples() < a.warmup || !ok {
		return nil, nil
	}

	metrics.RecordDetection(string(class.Activity))
	return a.event(now, class, features), nil
}

// EvaluateFrame measures a raw frame through the collaborators and then
// evaluates it. A nil detector means no objects.
func (a *Analyzer) EvaluateFrame(ctx context.Context, fm FrameMetrics, od ObjectDetector, frame, previous *Frame) (ev *models.DetectionEvent, err error) {
	defer a.recoverInto(&ev, &err)

	signal, err := fm.Measure(ctx, frame, previous)
	if err != nil {
		return nil, a.fail(StageMetrics, err)
	}
	var objects []ObjectDetection
	if od != nil {
		objects, err = od.Detect(ctx, frame)
		if err != nil {
			return nil, a.fail(StageObjects, err)
		}
	}
	return a.Evaluate(ctx, signal, objects)
}

// recoverInto must be deferred directly.
func (a *Analyzer) recoverInto(ev **models.DetectionEvent, err *error) {
	if r := recover(); r != nil {
		*ev = nil
		*err = a.fail(StagePanic, fmt.Errorf("recovered: %v", r))
	}
}

func (a *Analyzer) fail(stage string, err error) *AnalysisError {
	metrics.RecordAnalysisFailure(stage)
	return &AnalysisError{CameraID: a.cameraID, Stage: stage, Err: err}
}

func (a *Analyzer) event(ts time.Time, c Classification, f Features) *models.DetectionEvent {
	s := f.Objects
	nearVehicles := 0.0
	if s.PeopleNearVehicles {
		nearVehicles = 1
	}

	hint := models.HintLow
	if c.Confidence > 0.7 {
		hint = models.HintMedium
	}

	return &models.DetectionEvent{
		CameraID:     a.cameraID,
		ActivityType: c.Activity,
		Confidence:   c.Confidence,
		Timestamp:    ts,
		Behavior:     string(c.Activity),
		Details: models.DetectionDetails{
			Description:    Describe(c, s),
			Severity:       hint,
			ActionRequired: c.Confidence > 0.7,
			PetType:        c.PetType,
			Species:        c.Species,
			AIMetrics: map[string]float64{
				"edge_density":         f.Signal.EdgeDensity,
				"motion_intensity":     f.Signal.IntensityStd,
				"motion_speed":         f.Signal.MotionSpeed,
				"motion_consistency":   f.Signal.MotionConsistency,
				"persistent_activity":  f.Persistence,
				"suspicious_score":     c.Score,
				"fire_score":           c.FireScore,
				"objects_detected":     float64(len(s.People) + len(s.Vehicles) + len(s.Animals)),
				"people_count":         float64(len(s.People)),
				"vehicles_count":       float64(len(s.Vehicles)),
				"animals_count":        float64(len(s.Animals)),
				"people_near_vehicles": nearVehicles,
			},
		},
	}
}
