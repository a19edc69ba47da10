// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package main is the entry point for the Ursa server.

Ursa watches a small network of neighborhood cameras. Each camera has an
agent that scores frame signals and object detections for suspicious
activity. Confirmed detections become threats, which are rated for
severity and dispatched as authority calls and community SMS alerts
through Twilio. A dashboard follows along over a WebSocket.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("ursa")
	├── DataSupervisor ("data-layer")
	│   └── Dispatch coordinator (severity, calls, SMS)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event bus (Watermill router, gochannel or NATS)
	│   ├── WebSocket hub
	│   └── Scenario runner (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi)

Component initialization order:

 1. Environment: .env file via godotenv, if present
 2. Configuration: Koanf v2 with defaults, config file and environment
 3. Logging: zerolog with JSON or console output
 4. Threat store: in-memory or BadgerDB
 5. Directories: cameras and community members
 6. Messaging: Gemini wording with template fallback, Twilio transport
 7. Dispatch coordinator, event bus, threat monitor
 8. Camera agents and the scenario runner
 9. HTTP server and supervisor tree

# Configuration

Layered sources, highest priority first:
  - Environment variables (.env is loaded first and never overrides the shell)
  - Config file (config.yaml)
  - Built-in defaults

Without Twilio credentials, calls and texts are simulated and recorded on
the threat. Without GEMINI_API_KEY, call and SMS wording comes from
templates.

# Build Tags

	go build ./cmd/server               # in-process event bus
	go build -tags nats ./cmd/server    # NATS JetStream transport

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains, the
dispatch worker finishes its queue, and the bus and store are closed.
*/
package main
