// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package supervisor runs Ursa's long-lived services under a suture v4 tree.

	RootSupervisor ("ursa")
	├── DataSupervisor ("data-layer")
	│   └── dispatch-worker
	├── MessagingSupervisor ("messaging-layer")
	│   ├── event-bus
	│   └── websocket-hub
	└── APISupervisor ("api-layer")
	    └── http-server

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog using the zerolog-backed slog bridge from the logging
package. Service wrappers live in the services subpackage.
*/
package supervisor
