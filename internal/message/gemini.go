// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
	"github.com/tomtom215/ursa/internal/severity"
)

// ErrNoAPIKey is returned by NewGemini without credentials.
var ErrNoAPIKey = errors.New("gemini api key not configured")

const systemPrompt = `You write short, factual safety messages for Ursa, a neighborhood camera threat detection system.
Messages are read by dispatchers and residents. Never invent details that are not in the facts you are given.
Plain text only, no markdown.`

// GeminiConfig configures the generative renderer.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini renders messages with a Gemini model.
type Gemini struct {
	models   contentGenerator
	model    string
	timeout  time.Duration
	fallback Renderer
}

// NewGemini connects to the Gemini API. fallback supplies wording when
// generation fails or returns nothing.
func NewGemini(ctx context.Context, cfg GeminiConfig, fallback Renderer) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGemini(client.Models, cfg, fallback), nil
}

func newGemini(gen contentGenerator, cfg GeminiConfig, fallback Renderer) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if fallback == nil {
		fallback = NewTemplates(nil)
	}
	return &Gemini{models: gen, model: cfg.Model, timeout: cfg.Timeout, fallback: fallback}
}

// CallMessage asks the model for a voice message.
func (g *Gemini) CallMessage(ctx context.Context, in Input) string {
	text, err := g.generate(ctx, callPrompt(in), 200)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", KindCall).Msg("Message generation failed, using template")
		metrics.RecordMessageRender(KindCall, "fallback")
		return g.fallback.CallMessage(ctx, in)
	}
	metrics.RecordMessageRender(KindCall, "gemini")
	return text
}

// CommunityMessage asks the model for an SMS alert.
func (g *Gemini) CommunityMessage(ctx context.Context, in Input) string {
	text, err := g.generate(ctx, smsPrompt(in), 300)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", KindSMS).Msg("Message generation failed, using template")
		metrics.RecordMessageRender(KindSMS, "fallback")
		return g.fallback.CommunityMessage(ctx, in)
	}
	metrics.RecordMessageRender(KindSMS, "gemini")
	return text
}

func (g *Gemini) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleModel),
			Temperature:       genai.Ptr(float32(0.4)),
			MaxOutputTokens:   maxTokens,
		})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(strings.ReplaceAll(resp.Text(), "*", ""))
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

func facts(b *strings.Builder, in Input) {
	th := in.Threat
	fmt.Fprintf(b, "- Type: %s\n", activityWords(th))
	fmt.Fprintf(b, "- Category: %s\n", severity.Words(string(in.Analysis.Category)))
	fmt.Fprintf(b, "- Severity: %s\n", in.Analysis.Severity)
	fmt.Fprintf(b, "- Confidence: %.0f%%\n", th.Confidence*100)
	fmt.Fprintf(b, "- Location: %.4f, %.4f\n", th.Location.Lat, th.Location.Lng)

	switch in.Analysis.Category {
	case models.CategoryWildfire, models.CategoryFire:
		m := th.Details.AIMetrics
		fmt.Fprintf(b, "- Fire score: %.0f%%\n", m["fire_score"]*100)
	case models.CategoryLostPet:
		pet := th.Details.PetType
		if pet == "" {
			pet = "pet"
		}
		fmt.Fprintf(b, "- Pet type: %s\n", pet)
		if th.Details.IsMovingAcrossStreets {
			fmt.Fprintf(b, "- Detected across %d camera locations (moving across streets)\n", th.Details.CameraCount)
		}
	case models.CategoryWildlifeBear, models.CategoryWildlifeCoyote:
		fmt.Fprintf(b, "- Animal type: %s\n", strings.TrimPrefix(string(in.Analysis.Category), "wildlife_"))
	}
	if in.NearbyCameras > 0 {
		fmt.Fprintf(b, "- Additional cameras monitoring: %d\n", in.NearbyCameras)
	}
}

func callPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a voice message for a phone call to %s.\n\nFacts:\n", in.Recipient.Spoken())
	facts(&b, in)
	b.WriteString("\nTwo or three sentences, under 50 words, suitable for text to speech. ")
	b.WriteString("State what was detected, how severe it is, where, and what response is needed. ")
	b.WriteString("Start with \"Hello, this is Ursa security system.\"")
	return b.String()
}

func smsPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("Write an SMS alert for residents near the incident.\n\nFacts:\n")
	facts(&b, in)
	fmt.Fprintf(&b, "- Time: %s\n", in.Threat.Timestamp.Format(time.RFC3339))
	b.WriteString("\nStart with the header \"🚨 URSA SECURITY ALERT 🚨\". ")
	b.WriteString("Give one line of practical guidance for this kind of incident and keep the whole message under 300 characters.")
	return b.String()
}
