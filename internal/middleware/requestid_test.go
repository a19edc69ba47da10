// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/ursa/internal/logging"
)

func serveWithRequestID(t *testing.T, inbound string) (header, fromCtx, fromLogging string) {
	t.Helper()

	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
		fromLogging = logging.RequestIDFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec.Header().Get(RequestIDHeader), fromCtx, fromLogging
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	t.Parallel()

	header, ctxID, logID := serveWithRequestID(t, "")
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("response id %q is not a UUID: %v", header, err)
	}
	if ctxID != header || logID != header {
		t.Errorf("ids disagree: header=%q ctx=%q logging=%q", header, ctxID, logID)
	}
}

func TestRequestID_Inbound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"token", "req-123.abc_DEF", true},
		{"newline injection", "abc\nfake log line", false},
		{"too long", strings.Repeat("a", 65), false},
		{"spaces", "has space", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			header, _, _ := serveWithRequestID(t, tt.inbound)
			if tt.keep && header != tt.inbound {
				t.Errorf("header = %q, want inbound %q", header, tt.inbound)
			}
			if !tt.keep {
				if _, err := uuid.Parse(header); err != nil {
					t.Errorf("header = %q, want a fresh UUID", header)
				}
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}
