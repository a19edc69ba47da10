// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/ursa/internal/models"
)

// MemoryStore keeps threats for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	order []*models.Threat
	byID  map[string]*models.Threat
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*models.Threat)}
}

// Append adds t.
func (s *MemoryStore) Append(_ context.Context, t *models.Threat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, t.ID)
	}
	c := t.Clone()
	s.order = append(s.order, c)
	s.byID[c.ID] = c
	return nil
}

// Get returns a copy of the threat with id.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Threat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

// Update applies fn to a working copy and stores it when fn succeeds.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*models.Threat) error) (*models.Threat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.ID = id
	*cur = *work
	return cur.Clone(), nil
}

// List returns copies in append order.
func (s *MemoryStore) List(_ context.Context, f ListFilter) ([]*models.Threat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := applyFilter(s.order, f)
	out := make([]*models.Threat, len(matched))
	for i, t := range matched {
		out[i] = t.Clone()
	}
	return out, nil
}

// Count returns the number of stored threats.
func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
