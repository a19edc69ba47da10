// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package api serves Ursa's HTTP surface on a chi router.

Routes:

	GET  /api/v1/health                    liveness plus component summary
	GET  /api/v1/health/live               process is up
	GET  /api/v1/health/ready              store reachable
	GET  /api/v1/cameras                   camera directory
	GET  /api/v1/cameras/{id}/reasoning    agent reasoning log
	POST /api/v1/cameras/{id}/frames       analyze one precomputed frame
	GET  /api/v1/threats                   threat log (?status=, ?limit=)
	POST /api/v1/threats                   manual threat report
	GET  /api/v1/threats/{id}              one threat
	POST /api/v1/threats/{id}/resolve      mark resolved
	GET  /api/v1/patterns                  behavior patterns
	GET  /api/v1/entities                  tracked entities
	GET  /api/v1/community                 subscribers
	POST /api/v1/community                 register a subscriber
	GET  /api/v1/scenarios                 available demo scenarios
	POST /api/v1/scenarios/{name}/start    play a scenario
	POST /api/v1/scenarios/stop            stop the running scenario
	POST /api/v1/twilio/voice              TwiML for an answered call
	POST /api/v1/twilio/gather             TwiML for the keypad menu
	POST /api/v1/twilio/call-status        carrier status callback
	GET  /metrics                          Prometheus
	GET  /ws                               live updates

JSON endpoints answer with models.APIResponse. Twilio endpoints answer
with application/xml.
*/
package api
