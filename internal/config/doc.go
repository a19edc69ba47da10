// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package config loads the Ursa runtime configuration.

Configuration is layered with koanf, lowest priority first:

 1. Built-in defaults (see defaultConfig)
 2. A YAML file from CONFIG_PATH, ./config.yaml or /etc/ursa/config.yaml
 3. Environment variables mapped through envTransformFunc

Comma-separated environment values are split for slice fields such as
CORS_ORIGINS. The merged result is validated before it is returned.

# Sections

  - server: HTTP listener and environment name
  - logging: zerolog level, format and caller info
  - detection: scoring profile and analyzer warm-up
  - dispatch: queue size, lookup radii and escalation threshold
  - twilio: credentials, caller id, authority numbers and SMS rate
  - messages: Gemini key, model and render timeout
  - events: in-process or NATS event bus
  - store: threat store backend
  - cameras: camera registry (five demo cameras by default)
  - community: subscriber list (one demo member by default)
  - scenario: demo scenario runner
  - security: CORS and rate limiting

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Port)
*/
package config
