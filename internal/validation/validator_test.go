// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

type memberRequest struct {
	Phone string  `json:"phone" validate:"required,e164"`
	Lat   float64 `json:"lat" validate:"latitude"`
	Lng   float64 `json:"lng" validate:"longitude"`
	Name  string  `json:"name" validate:"max=10"`
}

type frameRequest struct {
	CameraID   string  `json:"camera_id" validate:"required,label"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	Profile    string  `json:"profile" validate:"omitempty,oneof=intrusion wildlife"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantMsg   string
	}{
		{"valid member", &memberRequest{Phone: "+14155550100", Lat: 37.7, Lng: -122.4, Name: "Ann"}, "", ""},
		{"missing phone", &memberRequest{Lat: 1, Lng: 1}, "phone", "phone is required"},
		{"bad phone", &memberRequest{Phone: "555-0100"}, "phone", "phone must be an E.164 phone number such as +14155550100"},
		{"bad latitude", &memberRequest{Phone: "+14155550100", Lat: 91}, "lat", "lat must be a valid latitude (-90 to 90)"},
		{"long name", &memberRequest{Phone: "+14155550100", Name: "Someone Long"}, "name", "name must be at most 10 characters"},
		{"valid frame", &frameRequest{CameraID: "cam_001", Confidence: 0.5, Profile: "wildlife"}, "", ""},
		{"bad label", &frameRequest{CameraID: "Cam 1"}, "camera_id", "camera_id must be a lower snake_case label"},
		{"confidence above one", &frameRequest{CameraID: "cam_001", Confidence: 1.5}, "confidence", "confidence must be less than or equal to 1"},
		{"unknown profile", &frameRequest{CameraID: "cam_001", Profile: "fire"}, "profile", "profile must be one of: intrusion wildlife"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if got := verr.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
			if got := verr.Errors()[0].Error(); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&frameRequest{})
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	if apiErr.Details["field"] != "camera_id" {
		t.Errorf("details = %v", apiErr.Details)
	}

	multi := ValidateStruct(&memberRequest{Lat: 100, Lng: 200})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("fields = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("message should join errors: %q", apiErr.Message)
	}

	empty := &RequestValidationError{}
	if empty.Error() != "validation failed" || empty.ToAPIError().Message != "Validation failed" {
		t.Error("empty error text mismatch")
	}
}
