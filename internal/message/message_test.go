// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package message

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/genai"

	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

func sampleInput(category models.Category, sev models.Severity, activity string) Input {
	return Input{
		Threat: &models.Threat{
			Type:       activity,
			CameraID:   "cam_002",
			Location:   models.Location{Lat: 37.7755, Lng: -122.4200},
			Confidence: 0.82,
			Timestamp:  time.Date(2026, time.April, 3, 22, 15, 0, 0, time.UTC),
		},
		Analysis:      models.Analysis{Category: category, Severity: sev},
		NearbyCameras: 5,
		Recipient:     models.RecipientFor(category),
	}
}

func TestTemplatesCallMessage(t *testing.T) {
	t.Parallel()

	in := sampleInput(models.CategoryCarProwling, models.SeverityHigh, "car_prowling")
	got := NewTemplates(time.UTC).CallMessage(context.Background(), in)
	want := "Hello, this is Ursa security system calling to report a HIGH severity incident. " +
		"We have detected car prowling with 82% confidence. " +
		"The incident is categorized as car prowling. " +
		"Location coordinates are 37.7755, -122.4200. " +
		"We have 5 additional cameras monitoring the area. " +
		"Please advise on the appropriate response. Thank you."
	if got != want {
		t.Errorf("call message =\n%s\nwant\n%s", got, want)
	}

	in.NearbyCameras = 0
	in.Threat.Location = models.Location{}
	got = NewTemplates(time.UTC).CallMessage(context.Background(), in)
	if strings.Contains(got, "coordinates") || strings.Contains(got, "additional cameras") {
		t.Errorf("optional sentences should be omitted: %s", got)
	}
}

func TestTemplatesCommunityMessage(t *testing.T) {
	t.Parallel()

	in := sampleInput(models.CategoryCarProwling, models.SeverityHigh, "car_prowling")
	got := NewTemplates(time.UTC).CommunityMessage(context.Background(), in)
	want := "🚨 URSA SECURITY ALERT 🚨\n\n" +
		"Incident detected: Car Prowling\n" +
		"Severity: HIGH\n" +
		"Time: 10:15 PM\n\n" +
		"⚠️ Be alert: Someone may be checking vehicles in your area. Please check your vehicles and report any suspicious activity.\n\n" +
		"Location: 37.7755, -122.4200\n" +
		"Multiple cameras monitoring the area.\n" +
		"\nStay safe. Updates will be sent as the situation develops."
	if got != want {
		t.Errorf("community message =\n%s\nwant\n%s", got, want)
	}
}

func TestTemplatesCategoryGuidance(t *testing.T) {
	t.Parallel()

	tpl := NewTemplates(time.UTC)
	tests := []struct {
		category models.Category
		activity string
		contains string
	}{
		{models.CategoryWildfire, "wildfire", "WILDFIRE DETECTED"},
		{models.CategoryKidnapping, "kidnapping", "CRITICAL INCIDENT"},
		{models.CategoryWildlifeCoyote, "wildlife_coyote", "Keep pets indoors"},
		{models.CategoryLostPet, "lost_pet", "LOST PET ALERT: Dog detected"},
	}
	for _, tt := range tests {
		in := sampleInput(tt.category, models.SeverityMedium, tt.activity)
		in.Threat.Details.PetType = "dog"
		if got := tpl.CommunityMessage(context.Background(), in); !strings.Contains(got, tt.contains) {
			t.Errorf("%s message missing %q:\n%s", tt.category, tt.contains, got)
		}
	}

	in := sampleInput(models.CategoryLoitering, models.SeverityLow, "loitering")
	in.Threat.Timestamp = time.Time{}
	got := tpl.CommunityMessage(context.Background(), in)
	if strings.Contains(got, "⚠️") || !strings.Contains(got, "Time: recently") {
		t.Errorf("loitering message = %s", got)
	}
}

type mockGenerator struct {
	text   string
	err    error
	prompt string
	model  string
}

func (m *mockGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		m.prompt = contents[0].Parts[0].Text
	}
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(m.text, genai.RoleModel)}},
	}, nil
}

func TestGeminiUsesModelOutput(t *testing.T) {
	gen := &mockGenerator{text: "  Hello, this is Ursa security system. **Wildfire** near Oak St.  "}
	g := newGemini(gen, GeminiConfig{}, NewTemplates(time.UTC))

	before := testutil.ToFloat64(metrics.MessageRenders.WithLabelValues(KindCall, "gemini"))
	in := sampleInput(models.CategoryWildfire, models.SeverityCritical, "wildfire")
	got := g.CallMessage(context.Background(), in)

	if got != "Hello, this is Ursa security system. Wildfire near Oak St." {
		t.Errorf("message = %q", got)
	}
	if gen.model != "gemini-2.5-flash" {
		t.Errorf("model = %q", gen.model)
	}
	if !strings.Contains(gen.prompt, "fire department") || !strings.Contains(gen.prompt, "Severity: CRITICAL") {
		t.Errorf("prompt missing facts:\n%s", gen.prompt)
	}
	if after := testutil.ToFloat64(metrics.MessageRenders.WithLabelValues(KindCall, "gemini")); after-before != 1 {
		t.Errorf("gemini renders delta = %v", after-before)
	}
}

func TestGeminiFallsBack(t *testing.T) {
	tpl := NewTemplates(time.UTC)
	in := sampleInput(models.CategoryLostPet, models.SeverityMedium, "lost_pet")
	in.Threat.Details.PetType = "cat"

	for _, gen := range []*mockGenerator{{err: errors.New("quota exceeded")}, {text: "   "}} {
		g := newGemini(gen, GeminiConfig{Model: "custom"}, tpl)
		if got, want := g.CommunityMessage(context.Background(), in), tpl.CommunityMessage(context.Background(), in); got != want {
			t.Errorf("fallback sms = %q, want template", got)
		}
		if got, want := g.CallMessage(context.Background(), in), tpl.CallMessage(context.Background(), in); got != want {
			t.Errorf("fallback call = %q, want template", got)
		}
		if !strings.Contains(gen.prompt, "Pet type: cat") {
			t.Errorf("prompt missing pet type:\n%s", gen.prompt)
		}
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewGemini(context.Background(), GeminiConfig{}, nil); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}
