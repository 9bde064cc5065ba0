// Package middleware provides Echo middleware for cross-origin headers,
// exchange logging and request guards.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"dev-cors-proxy/internal/model"
)

// ExchangeLogger returns an Echo middleware that writes one debug line per
// relayed exchange. The relay handler records the upstream URL and any
// transport error on the context; both are included when present.
func ExchangeLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			attrs := []any{
				"method", req.Method,
				"path", req.URL.RequestURI(),
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if target, ok := c.Get(model.ContextKeyUpstreamURL).(string); ok {
				attrs = append(attrs, "target", target)
			}
			if relayErr, ok := c.Get(model.ContextKeyRelayError).(error); ok {
				attrs = append(attrs, "err", relayErr)
			}

			logger.Debug("proxy", attrs...)

			return err
		}
	}
}
