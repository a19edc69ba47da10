// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import (
	"context"
	"math"
	"time"
)

// Color density domains carried in FrameSignal.ColorDensities.
const (
	ColorFire  = "fire"
	ColorSmoke = "smoke"
)

// FrameSignal is the per-frame metric vector supplied by FrameMetrics.
type FrameSignal struct {
	EdgeDensity       float64            `json:"edge_density"`
	IntensityMean     float64            `json:"intensity_mean"`
	IntensityStd      float64            `json:"intensity_std"`
	MotionSpeed       float64            `json:"motion_speed" validate:"gte=0,lte=1"`
	MotionConsistency float64            `json:"motion_consistency" validate:"gte=0,lte=1"`
	ColorDensities    map[string]float64 `json:"color_densities,omitempty"`
}

// Color returns the density for domain, zero when absent.
func (s FrameSignal) Color(domain string) float64 {
	return s.ColorDensities[domain]
}

func (s FrameSignal) finite() bool {
	vals := []float64{s.EdgeDensity, s.IntensityMean, s.IntensityStd, s.MotionSpeed, s.MotionConsistency}
	for _, v := range s.ColorDensities {
		vals = append(vals, v)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ObjectDetection is one bounding box from the ObjectDetector.
// BBox is x1, y1, x2, y2 in pixels.
type ObjectDetection struct {
	Class      string     `json:"class" validate:"required"`
	Confidence float64    `json:"confidence" validate:"gte=0,lte=1"`
	BBox       [4]float64 `json:"bbox"`
	Center     [2]float64 `json:"center"`
	Area       float64    `json:"area"`
}

// NewObjectDetection fills Center and Area from the bounding box.
func NewObjectDetection(class string, confidence float64, x1, y1, x2, y2 float64) ObjectDetection {
	return ObjectDetection{
		Class:      class,
		Confidence: confidence,
		BBox:       [4]float64{x1, y1, x2, y2},
		Center:     [2]float64{(x1 + x2) / 2, (y1 + y2) / 2},
		Area:       (x2 - x1) * (y2 - y1),
	}
}

// Frame is a decoded image handed to the collaborators. Ursa never looks
// inside Pixels itself.
type Frame struct {
	CameraID   string
	Width      int
	Height     int
	Pixels     []byte
	CapturedAt time.Time
}

// FrameMetrics measures a frame against the previous one. A nil previous
// frame must yield zero motion.
type FrameMetrics interface {
	Measure(ctx context.Context, frame, previous *Frame) (FrameSignal, error)
}

// ObjectDetector runs object detection on one frame. Implementations are
// stateless per call.
type ObjectDetector interface {
	Detect(ctx context.Context, frame *Frame) ([]ObjectDetection, error)
}

// Known object labels.
const (
	LabelPerson     = "person"
	LabelCar        = "car"
	LabelMotorcycle = "motorcycle"
	LabelBus        = "bus"
	LabelTruck      = "truck"
	LabelDog        = "dog"
	LabelCat        = "cat"
	LabelBear       = "bear"
	LabelCoyote     = "coyote"
	LabelDeer       = "deer"
	LabelBird       = "bird"
	LabelHorse      = "horse"
	LabelSheep      = "sheep"
	LabelCow        = "cow"
)

// MinObjectConfidence is the confidence an object needs to count.
const MinObjectConfidence = 0.5

var (
	vehicleLabels = map[string]bool{LabelCar: true, LabelMotorcycle: true, LabelBus: true, LabelTruck: true}
	animalLabels  = map[string]bool{
		LabelDog: true, LabelCat: true, LabelBear: true, LabelCoyote: true, LabelDeer: true,
		LabelBird: true, LabelHorse: true, LabelSheep: true, LabelCow: true,
	}
	petLabels = map[string]bool{LabelDog: true, LabelCat: true}
)

// IsVehicle reports whether label is a vehicle class.
func IsVehicle(label string) bool { return vehicleLabels[label] }

// IsAnimal reports whether label is an animal class.
func IsAnimal(label string) bool { return animalLabels[label] }

// KnownLabel reports whether label is in the supported label set.
func KnownLabel(label string) bool {
	return label == LabelPerson || vehicleLabels[label] || animalLabels[label]
}
