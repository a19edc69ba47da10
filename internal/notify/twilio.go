// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/time/rate"

	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// ErrServiceUnavailable means Twilio cannot be used right now.
var ErrServiceUnavailable = errors.New("twilio service unavailable")

const breakerName = "twilio-api"

// Config holds Twilio credentials and delivery limits.
type Config struct {
	AccountSID   string
	AuthToken    string
	From         string
	BaseURL      string
	SMSPerSecond float64
	SMSBurst     int
}

// Configured reports whether credentials are present.
func (c Config) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

type twilioAPI interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
}

// Service sends calls and texts through Twilio.
type Service struct {
	api     twilioAPI
	from    string
	baseURL string
	cb      *gobreaker.CircuitBreaker[interface{}]
	limiter *rate.Limiter
	now     func() time.Time
}

// NewService builds a Service. Without credentials every send returns
// ErrServiceUnavailable.
func NewService(cfg Config) *Service {
	var client twilioAPI
	if cfg.Configured() {
		rc := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		client = rc.Api
	} else {
		logging.Warn().Msg("Twilio credentials not set, calls and SMS will be simulated")
	}
	return newService(client, cfg)
}

func newService(client twilioAPI, cfg Config) *Service {
	perSecond := cfg.SMSPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	burst := cfg.SMSBurst
	if burst <= 0 {
		burst = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	return &Service{
		api:     client,
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		cb:      newBreaker(breakerName),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		now:     time.Now,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[interface{}] {
	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// Configured reports whether real deliveries are possible.
func (s *Service) Configured() bool {
	return s.api != nil
}

// BaseURL is the public URL Twilio uses for webhooks.
func (s *Service) BaseURL() string {
	return s.baseURL
}

func (s *Service) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(s.cb.Counts().ConsecutiveFailures))
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	return result, nil
}

// PlaceCall dials to and speaks message, followed by a keypad menu.
func (s *Service) PlaceCall(ctx context.Context, to, message string) (models.CallRecord, error) {
	if s.api == nil {
		return models.CallRecord{}, ErrServiceUnavailable
	}
	if err := ctx.Err(); err != nil {
		return models.CallRecord{}, err
	}

	doc, err := VoiceResponse(message, s.baseURL+GatherPath)
	if err != nil {
		return models.CallRecord{}, err
	}

	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetTwiml(doc)

	result, err := s.execute(func() (interface{}, error) {
		return s.api.CreateCall(params)
	})
	if err != nil {
		return models.CallRecord{}, fmt.Errorf("create call: %w", err)
	}

	call, ok := result.(*api.ApiV2010Call)
	if !ok || call == nil {
		return models.CallRecord{}, fmt.Errorf("create call: unexpected result %T", result)
	}
	ts := s.now()
	return models.CallRecord{
		CallSID:   deref(call.Sid),
		Status:    deref(call.Status),
		To:        to,
		From:      s.from,
		Message:   message,
		Timestamp: &ts,
	}, nil
}

// SendSMS texts body to to, waiting for the SMS rate limiter.
func (s *Service) SendSMS(ctx context.Context, to, body string) (models.SMSRecord, error) {
	if s.api == nil {
		return models.SMSRecord{}, ErrServiceUnavailable
	}
	if err := s.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.SMSRecord{}, ctxErr
		}
		return models.SMSRecord{}, fmt.Errorf("sms rate limit: %w", err)
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	result, err := s.execute(func() (interface{}, error) {
		return s.api.CreateMessage(params)
	})
	if err != nil {
		return models.SMSRecord{}, fmt.Errorf("create message: %w", err)
	}

	msg, ok := result.(*api.ApiV2010Message)
	if !ok || msg == nil {
		return models.SMSRecord{}, fmt.Errorf("create message: unexpected result %T", result)
	}
	return models.SMSRecord{
		MessageSID: deref(msg.Sid),
		Status:     deref(msg.Status),
		To:         to,
		Message:    body,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
