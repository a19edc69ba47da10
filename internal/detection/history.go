// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package detection

import "time"

// HistoryCapacity bounds both rolling buffers of a History.
const HistoryCapacity = 30

// ObjectFrame is the set of confident objects seen in one frame.
type ObjectFrame struct {
	Timestamp time.Time
	People    []ObjectDetection
	Vehicles  []ObjectDetection
	Animals   []ObjectDetection
}

// ring is a fixed-capacity FIFO.
type ring[T any] struct {
	buf   []T
	start int
	size  int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// last returns up to n newest items, oldest first.
func (r *ring[T]) last(n int) []T {
	if n > r.size {
		n = r.size
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.start+r.size-n+i)%len(r.buf)]
	}
	return out
}

// History holds one camera's rolling activity samples and object frames.
type History struct {
	activity ring[float64]
	objects  ring[ObjectFrame]
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{
		activity: newRing[float64](HistoryCapacity),
		objects:  newRing[ObjectFrame](HistoryCapacity),
	}
}

// RecordActivity appends an activity sample (the frame's edge density).
func (h *History) RecordActivity(sample float64) {
	h.activity.push(sample)
}

// RecordObjects appends an object frame.
func (h *History) RecordObjects(f ObjectFrame) {
	h.objects.push(f)
}

// Activity returns up to n of the newest samples, oldest first.
func (h *History) Activity(n int) []float64 {
	return h.activity.last(n)
}

// ObjectFrames returns up to n of the newest object frames, oldest first.
func (h *History) ObjectFrames(n int) []ObjectFrame {
	return h.objects.last(n)
}

// Samples returns the number of activity samples held.
func (h *History) Samples() int {
	return h.activity.size
}

// ObjectFrameCount returns the number of object frames held.
func (h *History) ObjectFrameCount() int {
	return h.objects.size
}
