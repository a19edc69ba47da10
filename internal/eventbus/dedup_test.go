// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package eventbus

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestDeduplicator(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDeduplicator(2, time.Minute)
	d.now = func() time.Time { return now }

	if d.IsDuplicate("a") {
		t.Fatal("first sighting reported as duplicate")
	}
	if !d.IsDuplicate("a") {
		t.Fatal("second sighting not reported")
	}
	if d.IsDuplicate("") || d.IsDuplicate("") {
		t.Error("empty id treated as duplicate")
	}

	// "a" was touched last, so "b" is evicted when "c" arrives.
	d.IsDuplicate("b")
	d.IsDuplicate("a")
	d.IsDuplicate("c")
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
	if d.IsDuplicate("b") {
		t.Error("evicted id still remembered")
	}

	now = now.Add(time.Minute)
	if d.IsDuplicate("c") {
		t.Error("expired id still remembered")
	}
}

func TestDeduplicatorConcurrent(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator(0, 0)
	var (
		mu    sync.Mutex
		fresh = map[string]int{}
		wg    sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("event-%d", i)
				if !d.IsDuplicate(id) {
					mu.Lock()
					fresh[id]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		if n := fresh[fmt.Sprintf("event-%d", i)]; n != 1 {
			t.Fatalf("event-%d handled %d times, want 1", i, n)
		}
	}
}
