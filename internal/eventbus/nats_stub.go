// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

//go:build !nats

package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

func newNATSTransport(_ Config, _ watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	return nil, nil, fmt.Errorf("NATS transport not available: build with -tags=nats")
}
