package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"dev-cors-proxy/internal/config"
)

func newCORSEcho(cfg config.CORSConfig, called *int) *echo.Echo {
	e := echo.New()
	e.Use(CORS(cfg))
	e.Any("/api/*", func(c echo.Context) error {
		*called++
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		origin string
		want   int
	}{
		{"GET with origin", http.MethodGet, "/api/users", "http://localhost:5173", http.StatusOK},
		{"GET without origin", http.MethodGet, "/api/users", "", http.StatusOK},
		{"POST with origin", http.MethodPost, "/api/items", "http://example.test", http.StatusOK},
		{"unmatched path with origin", http.MethodGet, "/health", "http://localhost:5173", http.StatusNotFound},
		{"unmatched path without origin", http.MethodGet, "/health", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called int
			e := newCORSEcho(config.Default().CORS, &called)

			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if v := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); v != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", v, "*")
			}
		})
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		origin string
	}{
		{"browser preflight", "/api/items", "http://localhost:5173"},
		{"options without origin", "/api/items", ""},
		{"preflight on unmatched path", "/health", "http://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called int
			e := newCORSEcho(config.Default().CORS, &called)

			req := httptest.NewRequest(http.MethodOptions, tt.path, http.NoBody)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
				req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
				req.Header.Set(echo.HeaderAccessControlRequestHeaders, "content-type,x-requested-with")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
			if called != 0 {
				t.Errorf("handler called %d times, want 0", called)
			}
			if v := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); v != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", v, "*")
			}
			if tt.origin == "" {
				return
			}
			if v := rec.Header().Get(echo.HeaderAccessControlAllowMethods); v == "" {
				t.Error("Access-Control-Allow-Methods missing on preflight")
			}
			if v := rec.Header().Get(echo.HeaderAccessControlAllowHeaders); v != "content-type,x-requested-with" {
				t.Errorf("Access-Control-Allow-Headers = %q, want requested headers reflected", v)
			}
		})
	}
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	var called int
	e := newCORSEcho(config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}}, &called)

	req := httptest.NewRequest(http.MethodGet, "/api/users", http.NoBody)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if v := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); v != "http://localhost:5173" {
		t.Errorf("allowed origin: Access-Control-Allow-Origin = %q, want %q", v, "http://localhost:5173")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users", http.NoBody)
	req.Header.Set(echo.HeaderOrigin, "http://evil.test")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if v := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); v != "" {
		t.Errorf("foreign origin: Access-Control-Allow-Origin = %q, want empty", v)
	}
}

func TestCORS_MaxAge(t *testing.T) {
	var called int
	cfg := config.Default().CORS
	cfg.MaxAge = 600
	e := newCORSEcho(cfg, &called)

	req := httptest.NewRequest(http.MethodOptions, "/api/items", http.NoBody)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPut)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if v := rec.Header().Get(echo.HeaderAccessControlMaxAge); v != "600" {
		t.Errorf("Access-Control-Max-Age = %q, want %q", v, "600")
	}
}
