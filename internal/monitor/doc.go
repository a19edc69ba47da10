// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package monitor is the service object that turns camera detections into
recorded threats.

A committed detection flows through these steps:

 1. The detection becomes a threat at the camera's position.
 2. AddThreat assigns an id and active status and appends it to the threat store.
 3. Lost pets are tracked so sightings across cameras are flagged.
 4. The threat is submitted to the dispatch coordinator, which never blocks.
 5. Live clients receive a detection message with the agent's reasoning.
 6. The detection and threat are published on the event bus. The pattern
    correlator consumes detections and camera activity consumes threats.

Without a bus the two consumers run inline, which is how the tests drive
the monitor.
*/
package monitor
