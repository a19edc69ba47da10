// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package dispatch

import "sync"

// Ledger is a process-lifetime set of keys that have been acted on.
type Ledger struct {
	mu     sync.Mutex
	marked map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{marked: make(map[string]struct{})}
}

// TryMark marks key and reports whether this call was the first to do so.
func (l *Ledger) TryMark(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.marked[key]; ok {
		return false
	}
	l.marked[key] = struct{}{}
	return true
}

// Release unmarks key so a later TryMark can claim it again.
func (l *Ledger) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.marked, key)
}

// Marked reports whether key has been marked.
func (l *Ledger) Marked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.marked[key]
	return ok
}

// Len returns the number of marked keys.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.marked)
}

// Action names used as ledger key prefixes and metric labels.
const (
	ActionCall   = "call"
	ActionNotify = "notify"
)

// LedgerKey is the ledger entry for action on threat id.
func LedgerKey(action, threatID string) string {
	return action + ":" + threatID
}
