// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package services adapts Ursa components to suture.Service.

Two wrappers cover every long-running component:

  - RunnerService wraps anything with RunWithContext(ctx) error: the
    dispatch coordinator, the event bus router and the websocket hub.
  - HTTPServerService wraps an *http.Server, turning ListenAndServe and
    Shutdown into a context-aware Serve.

Both implement fmt.Stringer so suture logs name the service.

	tree.AddDataService(services.NewRunnerService("dispatch-worker", coordinator))
	tree.AddMessagingService(services.NewRunnerService("event-bus", bus))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
*/
package services
