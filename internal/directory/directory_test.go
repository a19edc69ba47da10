// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package directory

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/ursa/internal/geo"
	"github.com/tomtom215/ursa/internal/models"
)

func TestNewCameras(t *testing.T) {
	t.Parallel()

	if _, err := NewCameras(nil); !errors.Is(err, ErrNoCameras) {
		t.Errorf("empty directory err = %v", err)
	}

	dup := []models.Camera{{ID: "a", Lat: 1, Lng: 1}, {ID: "a", Lat: 2, Lng: 2}}
	if _, err := NewCameras(dup); !errors.Is(err, ErrDuplicateCamera) {
		t.Errorf("duplicate err = %v", err)
	}

	bad := []models.Camera{{ID: "a", Lat: 0, Lng: 0}}
	if _, err := NewCameras(bad); !errors.Is(err, geo.ErrInvalidLocation) {
		t.Errorf("invalid location err = %v", err)
	}

	cams, err := NewCameras([]models.Camera{{ID: "x", Lat: 10, Lng: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := cams.Get("x"); got.Status != models.CameraActive {
		t.Errorf("status defaulted to %q", got.Status)
	}
}

func TestCamerasOrderAndNearby(t *testing.T) {
	t.Parallel()

	cams, err := NewCameras(DemoCameras())
	if err != nil {
		t.Fatal(err)
	}

	list := cams.Cameras()
	if len(list) != 5 || list[0].ID != "cam_001" || list[4].ID != "cam_005" {
		t.Fatalf("registration order lost: %v", list)
	}

	near, err := cams.Nearby(models.Location{Lat: 37.7749, Lng: -122.4194}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(near) != 5 {
		t.Fatalf("nearby = %d, want 5", len(near))
	}
	if near[0].ID != "cam_001" || near[0].DistanceMiles != 0 {
		t.Errorf("nearest = %s at %v", near[0].ID, near[0].DistanceMiles)
	}
	for i := 1; i < len(near); i++ {
		if near[i].DistanceMiles < near[i-1].DistanceMiles {
			t.Fatal("results not sorted by distance")
		}
	}

	far, err := cams.Nearby(models.Location{Lat: 40.7128, Lng: -74.0060}, 5)
	if err != nil || len(far) != 0 {
		t.Errorf("far query = %v, %v", far, err)
	}

	invalid, err := cams.Nearby(models.Location{}, 5)
	if !errors.Is(err, geo.ErrInvalidLocation) || invalid == nil || len(invalid) != 0 {
		t.Errorf("invalid query = %v, %v", invalid, err)
	}
}

func TestCamerasTouch(t *testing.T) {
	t.Parallel()

	cams, _ := NewCameras(DemoCameras())
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := cams.Touch("cam_002", at); err != nil {
		t.Fatal(err)
	}
	got, _ := cams.Get("cam_002")
	if got.LastActivity == nil || !got.LastActivity.Equal(at) {
		t.Errorf("last activity = %v", got.LastActivity)
	}
	if err := cams.Touch("cam_999", at); !errors.Is(err, ErrUnknownCamera) {
		t.Errorf("unknown camera err = %v", err)
	}
}

func TestNormalizeE164(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+13022151083", "+13022151083", false},
		{"3022151083", "+13022151083", false},
		{"13022151083", "+13022151083", false},
		{"(302) 215-1083", "+13022151083", false},
		{"+44 20 7946 0958", "+442079460958", false},
		{"555-0100", "", true},
		{"23022151083", "", true},
		{"302215108x", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeE164(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeE164(%q) err = %v", tt.in, err)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("NormalizeE164(%q) err = %v, want ErrInvalidPhone", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommunity(t *testing.T) {
	t.Parallel()

	c, err := NewCommunity([]models.CommunityMember{DemoMember(DefaultPoliceNumber)})
	if err != nil {
		t.Fatal(err)
	}

	added, err := c.Add(models.CommunityMember{Phone: "415 555 0100", Lat: 37.80, Lng: -122.41})
	if err != nil {
		t.Fatal(err)
	}
	if added.Phone != "+14155550100" || added.Name != "Community Member" {
		t.Errorf("added = %+v", added)
	}

	if _, err := c.Add(models.CommunityMember{Phone: "4155550100", Lat: 37.81, Lng: -122.41, Name: "Moved"}); err != nil {
		t.Fatal(err)
	}
	members := c.Members()
	if len(members) != 2 || members[1].Name != "Moved" {
		t.Errorf("members = %+v", members)
	}

	if _, err := c.Add(models.CommunityMember{Phone: "4155550101", Lat: 0, Lng: 0}); !errors.Is(err, geo.ErrInvalidLocation) {
		t.Errorf("zero location err = %v", err)
	}
	if _, err := c.Add(models.CommunityMember{Phone: "4155550102", Lat: 95, Lng: 10}); err == nil {
		t.Error("latitude out of range accepted")
	}

	hits, err := c.Within(models.Location{Lat: 37.7749, Lng: -122.4194}, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Value.Name != "Demo User" {
		t.Errorf("hits = %+v", hits)
	}

	none, _ := c.Within(models.Location{Lat: 34.05, Lng: -118.24}, 50)
	if len(none) != 0 {
		t.Errorf("Los Angeles should be outside 50 miles, got %d", len(none))
	}
}

func TestCommunityRadiusBoundary(t *testing.T) {
	t.Parallel()

	center := models.Location{Lat: 40.0, Lng: -105.0}
	c, err := NewCommunity([]models.CommunityMember{
		{Phone: "+17205550149", Lat: center.Lat + 49/69.09, Lng: center.Lng, Name: "Inside"},
		{Phone: "+17205550151", Lat: center.Lat + 51/69.09, Lng: center.Lng, Name: "Outside"},
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := c.Within(center, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Value.Name != "Inside" {
		t.Fatalf("hits = %+v", hits)
	}
	if d := hits[0].DistanceMiles; math.Abs(d-49) > 0.1 {
		t.Errorf("distance = %.3f, want ~49", d)
	}
}
