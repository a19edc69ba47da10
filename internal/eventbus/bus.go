// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package eventbus carries detection and threat events between the camera
// agents and their downstream consumers over Watermill.
//
// The default transport is an in-process gochannel pub/sub. Builds with
// -tags=nats can route the same topics through a NATS server instead.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// Default topic names.
const (
	DefaultDetectionTopic = "ursa.detections"
	DefaultThreatTopic    = "ursa.threats"
)

// Metadata keys set on every published message.
const (
	MetadataCameraID = "camera_id"
	MetadataType     = "event_type"
)

// Config controls the bus transport.
type Config struct {
	DetectionTopic string
	ThreatTopic    string

	// NATSEnabled routes topics through NATSURL. Requires -tags=nats.
	NATSEnabled bool
	NATSURL     string

	// Queue group used by NATS subscribers.
	QueueGroup string

	BufferSize   int64
	CloseTimeout time.Duration
	MaxRetries   int
}

// DefaultConfig returns in-process defaults.
func DefaultConfig() Config {
	return Config{
		DetectionTopic: DefaultDetectionTopic,
		ThreatTopic:    DefaultThreatTopic,
		NATSURL:        "nats://127.0.0.1:4222",
		QueueGroup:     "ursa",
		BufferSize:     256,
		CloseTimeout:   10 * time.Second,
		MaxRetries:     3,
	}
}

// DetectionHandler consumes a detection event.
type DetectionHandler func(ctx context.Context, ev models.DetectionEvent) error

// ThreatHandler consumes a threat snapshot.
type ThreatHandler func(ctx context.Context, t *models.Threat) error

// Bus publishes events and routes them to registered handlers.
type Bus struct {
	cfg        Config
	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router
	logger     watermill.LoggerAdapter

	// gochannel serves as both publisher and subscriber.
	shared bool
}

// New creates a bus for cfg. Handlers must be registered before Run.
func New(cfg Config) (*Bus, error) {
	cfg = withDefaults(cfg)
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())

	var (
		pub message.Publisher
		sub message.Subscriber
		err error
	)
	if cfg.NATSEnabled {
		pub, sub, err = newNATSTransport(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create nats transport: %w", err)
		}
	} else {
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		bus, err := newBus(cfg, ch, ch, logger)
		if err != nil {
			return nil, err
		}
		bus.shared = true
		return bus, nil
	}

	return newBus(cfg, pub, sub, logger)
}

func newBus(cfg Config, pub message.Publisher, sub message.Subscriber, logger watermill.LoggerAdapter) (*Bus, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		Logger:          logger,
	}
	router.AddMiddleware(retry.Middleware)

	return &Bus{
		cfg:        cfg,
		publisher:  pub,
		subscriber: sub,
		router:     router,
		logger:     logger,
	}, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.DetectionTopic == "" {
		cfg.DetectionTopic = def.DetectionTopic
	}
	if cfg.ThreatTopic == "" {
		cfg.ThreatTopic = def.ThreatTopic
	}
	if cfg.NATSURL == "" {
		cfg.NATSURL = def.NATSURL
	}
	if cfg.QueueGroup == "" {
		cfg.QueueGroup = def.QueueGroup
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = def.CloseTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return cfg
}

// PublishDetection publishes ev on the detection topic. A non-empty
// ev.EventID becomes the message id, so redeliveries share it.
func (b *Bus) PublishDetection(ctx context.Context, ev models.DetectionEvent) error {
	return b.publish(ctx, b.cfg.DetectionTopic, ev.EventID, ev.CameraID, string(ev.ActivityType), ev)
}

// PublishThreat publishes a threat snapshot on the threat topic.
func (b *Bus) PublishThreat(ctx context.Context, t *models.Threat) error {
	if t == nil {
		return nil
	}
	return b.publish(ctx, b.cfg.ThreatTopic, t.ID, t.CameraID, t.Type, t)
}

func (b *Bus) publish(ctx context.Context, topic, id, cameraID, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if id == "" {
		id = uuid.NewString()
	}
	msg := message.NewMessage(id, data)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataCameraID, cameraID)
	msg.Metadata.Set(MetadataType, eventType)

	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// OnDetection registers fn for the detection topic. Events published
// without an id get the message id.
func (b *Bus) OnDetection(name string, fn DetectionHandler) {
	topic := b.cfg.DetectionTopic
	b.router.AddNoPublisherHandler(name, topic, b.subscriber, func(msg *message.Message) error {
		var ev models.DetectionEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return b.dropMalformed(topic, name, msg, err)
		}
		if ev.EventID == "" {
			ev.EventID = msg.UUID
		}
		return b.consume(topic, fn(msg.Context(), ev))
	})
}

// OnThreat registers fn for the threat topic.
func (b *Bus) OnThreat(name string, fn ThreatHandler) {
	topic := b.cfg.ThreatTopic
	b.router.AddNoPublisherHandler(name, topic, b.subscriber, func(msg *message.Message) error {
		var t models.Threat
		if err := json.Unmarshal(msg.Payload, &t); err != nil {
			return b.dropMalformed(topic, name, msg, err)
		}
		return b.consume(topic, fn(msg.Context(), &t))
	})
}

// A malformed payload never becomes valid on retry, so it is acked.
func (b *Bus) dropMalformed(topic, handler string, msg *message.Message, err error) error {
	logging.Warn().
		Err(err).
		Str("topic", topic).
		Str("handler", handler).
		Str("message_id", msg.UUID).
		Msg("Dropping malformed event")
	metrics.RecordEventConsumed(topic, "malformed")
	return nil
}

func (b *Bus) consume(topic string, err error) error {
	if err != nil {
		metrics.RecordEventConsumed(topic, "error")
		return err
	}
	metrics.RecordEventConsumed(topic, "ok")
	return nil
}

// Running is closed once every handler is subscribed.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// RunWithContext runs the router until ctx is cancelled.
func (b *Bus) RunWithContext(ctx context.Context) error {
	logging.Info().
		Str("detections", b.cfg.DetectionTopic).
		Str("threats", b.cfg.ThreatTopic).
		Bool("nats", b.cfg.NATSEnabled).
		Msg("Event bus router starting")

	if err := b.router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event bus router: %w", err)
	}
	return ctx.Err()
}

// Close stops the router and closes the transport.
func (b *Bus) Close() error {
	var errs []error
	if err := b.router.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if !b.shared {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// String implements fmt.Stringer for supervisor logging.
func (b *Bus) String() string {
	return "event-bus"
}
