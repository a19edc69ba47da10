// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/ursa/internal/logging"
)

// ContextRunner is satisfied by *dispatch.Coordinator, *eventbus.Bus,
// *websocket.Hub and *scenario.Runner.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService supervises a ContextRunner.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewRunnerService wraps runner under name.
func NewRunnerService(name string, runner ContextRunner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service. A runner that returns nil before ctx is
// done is reported as an error so the supervisor restarts it.
func (s *RunnerService) Serve(ctx context.Context) error {
	logging.Debug().Str("service", s.name).Msg("service starting")

	err := s.runner.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return fmt.Errorf("%s exited unexpectedly", s.name)
	}
	return fmt.Errorf("%s: %w", s.name, err)
}

// String implements fmt.Stringer.
func (s *RunnerService) String() string {
	return s.name
}
