// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package agent

import (
	"errors"
	"fmt"

	"github.com/tomtom215/ursa/internal/detection"
	"github.com/tomtom215/ursa/internal/models"
)

// ErrUnknownAgent is returned for a camera without an agent.
var ErrUnknownAgent = errors.New("no agent for camera")

// Registry holds one agent per camera.
type Registry struct {
	order  []string
	agents map[string]*Agent
}

// NewRegistry creates an agent for each camera, in order.
func NewRegistry(cams []models.Camera, p detection.Profile, opts ...Option) *Registry {
	r := &Registry{
		order:  make([]string, 0, len(cams)),
		agents: make(map[string]*Agent, len(cams)),
	}
	for _, cam := range cams {
		if _, dup := r.agents[cam.ID]; dup {
			continue
		}
		r.order = append(r.order, cam.ID)
		r.agents[cam.ID] = New(cam, p, opts...)
	}
	return r
}

// Get returns the agent for cameraID.
func (r *Registry) Get(cameraID string) (*Agent, error) {
	a, ok := r.agents[cameraID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, cameraID)
	}
	return a, nil
}

// Agents returns every agent in camera order.
func (r *Registry) Agents() []*Agent {
	out := make([]*Agent, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id])
	}
	return out
}

// Len returns the number of agents.
func (r *Registry) Len() int {
	return len(r.order)
}
