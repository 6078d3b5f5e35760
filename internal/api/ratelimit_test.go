package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimit_Allowed(t *testing.T) {
	rdb := newTestRedis(t)

	handlerCalled := false
	handler := func(c echo.Context) error {
		handlerCalled = true
		return c.String(http.StatusOK, "ok")
	}

	mw := RateLimitMiddleware(rdb, 5, time.Minute)
	wrapped := mw(handler)

	c, rec := newTestContext(http.MethodGet, "/api/v1/test", nil)

	if err := wrapped(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !handlerCalled {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// Verify rate limit headers are present.
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Errorf("expected X-RateLimit-Limit=5, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("expected X-RateLimit-Remaining=4, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Reset"); got == "" {
		t.Error("expected X-RateLimit-Reset header to be set")
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	rdb := newTestRedis(t)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := RateLimitMiddleware(rdb, 2, time.Minute)
	wrapped := mw(handler)

	// First two requests pass, third is rejected.
	for i := 0; i < 2; i++ {
		c, rec := newTestContext(http.MethodGet, "/api/v1/test", nil)
		if err := wrapped(c); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	c, rec := newTestContext(http.MethodGet, "/api/v1/test", nil)
	if err := wrapped(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Retry-After"); got == "" {
		t.Error("expected Retry-After header to be set")
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if resp.Error.Code != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %s", resp.Error.Code)
	}
}

func TestRateLimit_PerUserKeying(t *testing.T) {
	rdb := newTestRedis(t)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := RateLimitMiddleware(rdb, 1, time.Minute)
	wrapped := mw(handler)

	c1, rec1 := newTestContext(http.MethodGet, "/api/v1/test", nil)
	setAuthUser(c1, int64(1))
	if err := wrapped(c1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec1.Code != http.StatusOK {
		t.Fatalf("user 1: expected 200, got %d", rec1.Code)
	}

	// A different user has an independent window.
	c2, rec2 := newTestContext(http.MethodGet, "/api/v1/test", nil)
	setAuthUser(c2, int64(2))
	if err := wrapped(c2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec2.Code != http.StatusOK {
		t.Fatalf("user 2: expected 200, got %d", rec2.Code)
	}
}
