// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package dispatch turns committed threats into outbound actions.

Submit hands a threat to the Coordinator without blocking. A single worker
(RunWithContext) analyzes each threat, looks up nearby cameras, and then
calls the responsible authority and notifies the community when the
analysis asks for it. Each action is recorded in the Ledger immediately
before it runs, so a threat id produces at most one authority call and at
most one community pass no matter how often it is submitted.

When the queue is full Submit processes the threat on its own goroutine
instead of dropping it.
*/
package dispatch
