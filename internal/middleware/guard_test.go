package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"dev-cors-proxy/internal/config"
)

func newGuardedEcho(cfg config.ServerConfig) *echo.Echo {
	e := echo.New()
	e.Use(Guards(cfg)...)
	e.Any("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestGuards_DisabledByDefault(t *testing.T) {
	if mws := Guards(config.Default().Server); len(mws) != 0 {
		t.Errorf("Guards() returned %d middleware for default config, want 0", len(mws))
	}
}

func TestGuards_BodyLimit(t *testing.T) {
	e := newGuardedEcho(config.ServerConfig{BodyMaxBytes: 8})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":1}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("small body: status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":"too long for the limit"}`))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestGuards_RateLimit(t *testing.T) {
	// 1 request per second, burst of 1: a second request should be rejected.
	e := newGuardedEcho(config.ServerConfig{
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1},
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", rec.Code, http.StatusOK)
	}

	got429 := false
	for i := 0; i < 10; i++ {
		req = httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			got429 = true
			break
		}
	}
	if !got429 {
		t.Error("expected at least one 429 response after burst, got none")
	}
}
