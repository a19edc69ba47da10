// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package websocket pushes live monitoring updates to dashboard clients.

A single Hub fans messages out to every connected Client. Each client owns a
buffered send channel drained by its write pump; a client whose buffer fills
is dropped rather than stalling the broadcast loop.

# Message Types

  - init: cameras and active threats, sent once on connect
  - detection: a new threat with the reasoning entry that produced it
  - threat_updated: a threat after dispatch or resolution
  - pattern: a new or grown behavior pattern
  - entity: a tracked entity seen on a new camera
  - scenario_started, scenario_stopped, scenario_summary: demo runner events
  - ping, pong: keepalive initiated by the client

# Usage

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	hub.BroadcastThreatUpdated(threat)

Hub.RunWithContext is designed to run under a suture supervisor.
*/
package websocket
