// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package eventbus

import (
	"container/list"
	"sync"
	"time"
)

// Deduplicator defaults.
const (
	DefaultDedupCapacity = 4096
	DefaultDedupTTL      = 10 * time.Minute
)

type seenEntry struct {
	key       string
	expiresAt time.Time
}

// Deduplicator remembers recently seen event ids so a redelivered message
// is handled once. It holds at most capacity ids and forgets each after
// ttl, evicting the least recently seen first. Safe for concurrent use.
type Deduplicator struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

// NewDeduplicator creates a deduplicator. Non-positive arguments use the
// defaults.
func NewDeduplicator(capacity int, ttl time.Duration) *Deduplicator {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &Deduplicator{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// IsDuplicate reports whether key was seen within the ttl. A new key is
// recorded. The empty key is never a duplicate.
func (d *Deduplicator) IsDuplicate(key string) bool {
	if key == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if el, ok := d.items[key]; ok {
		entry := el.Value.(*seenEntry)
		if now.Before(entry.expiresAt) {
			d.order.MoveToFront(el)
			return true
		}
		d.order.Remove(el)
		delete(d.items, key)
	}

	d.items[key] = d.order.PushFront(&seenEntry{key: key, expiresAt: now.Add(d.ttl)})
	for len(d.items) > d.capacity {
		oldest := d.order.Back()
		d.order.Remove(oldest)
		delete(d.items, oldest.Value.(*seenEntry).key)
	}
	return false
}

// Len returns the number of remembered ids, expired ones included.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
