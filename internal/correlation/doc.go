// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package correlation links detections across cameras.

The Correlator groups detection events that share a behavior label and
occur within PatternWindow of a pattern's anchor, and predicts the next
camera likely to see the same behavior. The Tracker follows a coarse
entity, a pet type that was sighted within the last PatternWindow,
through its most recent sightings and flags threats whose entity has
been seen by more than one camera.

Both types are safe for concurrent use.
*/
package correlation
