// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

// Package store is the threat log. Threats are appended once and then
// updated in place as dispatch attaches analysis and delivery records.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/ursa/internal/models"
)

// Store errors.
var (
	ErrNotFound  = errors.New("threat not found")
	ErrDuplicate = errors.New("threat already exists")
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Status string
	// Limit keeps only the most recent matches.
	Limit int
}

// ThreatStore persists threats in append order. Implementations hand out
// copies, so callers may modify what they receive.
type ThreatStore interface {
	Append(ctx context.Context, t *models.Threat) error
	Get(ctx context.Context, id string) (*models.Threat, error)
	Update(ctx context.Context, id string, fn func(*models.Threat) error) (*models.Threat, error)
	List(ctx context.Context, f ListFilter) ([]*models.Threat, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Open returns the store named by backend. path is only used by badger.
func Open(backend, path string) (ThreatStore, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBadger:
		opts := badger.DefaultOptions(path)
		opts.Logger = nil
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for threats: %w", err)
		}
		return NewBadgerStore(db, true)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func applyFilter(all []*models.Threat, f ListFilter) []*models.Threat {
	out := make([]*models.Threat, 0, len(all))
	for _, t := range all {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
