// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package models defines the records Ursa produces and exchanges.

Every record marshals to JSON with stable snake_case field names; the live
dashboard, the websocket stream and the REST API all consume these shapes
directly, so field names are part of the external contract.

Record families:

  - Camera, CommunityMember, NearbyCamera: directory reference data
  - DetectionEvent, DetectionDetails: classifier output, immutable once emitted
  - Threat, Analysis, CallRecord, NotificationRecord: the threat log
  - Pattern, Prediction, TrackedEntity, Sighting: correlation output
  - ReasoningEntry: per-camera explanation log
  - APIResponse, APIError, Metadata: HTTP envelope

Typed string constants cover the closed vocabularies (activity types,
categories, severities, threat status).
*/
package models
