package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"dev-cors-proxy/internal/config"
	"dev-cors-proxy/internal/middleware"
)

// RegisterRoutes wires the relay and, when enabled, the status endpoint onto
// the Echo instance. Every other path falls through to Echo's 404.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, relay *RelayHandler, status *StatusHandler, logger *slog.Logger) {
	if cfg.Status.Enabled {
		e.GET(cfg.Status.Path, status.Status)
	}

	exchangeLog := middleware.ExchangeLogger(logger.With("component", "relay"))
	e.Any(cfg.Relay.Prefix, relay.Handle, exchangeLog)
	e.Any(cfg.Relay.Prefix+"/*", relay.Handle, exchangeLog)
}
