package main

import (
	"net/http"
	"testing"

	"golang.org/x/time/rate"
)

func TestRequireAPIKey(t *testing.T) {
	s := newTestServer(t)
	s.apiKey = "s3cret"
	h := s.routes()

	if rec := do(t, h, http.MethodGet, "/api/decisions", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status=%d, want 401", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/decisions", "", "Authorization", "Bearer wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status=%d, want 401", rec.Code)
	}
	// past auth, no store configured
	if rec := do(t, h, http.MethodGet, "/api/decisions", "", "Authorization", "Bearer s3cret"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("bearer key: status=%d, want 503", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/decisions", "", apiKeyHeader, "s3cret"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("header key: status=%d, want 503", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz should not need a key, status=%d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.limiter = rate.NewLimiter(0, 1)
	h := s.routes()

	if rec := do(t, h, http.MethodPost, "/api/carriers/select", `{"weight_kg": 1}`); rec.Code != http.StatusOK {
		t.Fatalf("first request: status=%d, want 200", rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/api/carriers/select", `{"weight_kg": 1}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status=%d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}
