// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package notify delivers escalations over Twilio.

Service is the transport: voice calls and SMS through the Twilio REST API,
guarded by a circuit breaker, with SMS throttled by a token bucket. When
Twilio is not configured, or the breaker is open, Service returns
ErrServiceUnavailable and the callers record a simulated delivery instead.

Caller reports a threat to the authority chosen for its category.
Community texts every subscriber within the notification radius.
The TwiML helpers build the voice documents served to Twilio webhooks.
*/
package notify
