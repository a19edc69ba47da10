// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package api

import (
	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/models"
)

// CreateThreatRequest is a manual threat report. Location defaults to the
// camera's position when the camera is known.
type CreateThreatRequest struct {
	Type       string                   `json:"type" validate:"required,label"`
	CameraID   string                   `json:"camera_id" validate:"required,max=64"`
	Confidence float64                  `json:"confidence" validate:"gte=0,lte=1"`
	Location   *LocationRequest         `json:"location"`
	Details    *models.DetectionDetails `json:"details"`
}

// LocationRequest is a coordinate supplied by a client.
type LocationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// RegisterMemberRequest registers a community subscriber.
type RegisterMemberRequest struct {
	Phone string  `json:"phone" validate:"required,max=32"`
	Lat   float64 `json:"lat" validate:"latitude"`
	Lng   float64 `json:"lng" validate:"longitude"`
	Name  string  `json:"name" validate:"max=100"`
}

// FrameRequest is one analyzed frame: the measured signal plus the object
// detector's boxes.
type FrameRequest struct {
	Signal  detection.FrameSignal       `json:"signal"`
	Objects []detection.ObjectDetection `json:"objects" validate:"max=200,dive"`
}

// FrameResponse reports what the camera agent concluded.
type FrameResponse struct {
	Detected  bool                   `json:"detected"`
	Threat    *models.Threat         `json:"threat,omitempty"`
	Reasoning *models.ReasoningEntry `json:"reasoning,omitempty"`
}

// objects recomputes derived box fields, which clients may omit.
func (fr FrameRequest) objects() []detection.ObjectDetection {
	out := make([]detection.ObjectDetection, 0, len(fr.Objects))
	for _, o := range fr.Objects {
		out = append(out, detection.NewObjectDetection(o.Class, o.Confidence, o.BBox[0], o.BBox[1], o.BBox[2], o.BBox[3]))
	}
	return out
}
