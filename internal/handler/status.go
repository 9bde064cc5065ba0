package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dev-cors-proxy/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// StatusHandler serves the optional local status endpoint.
type StatusHandler struct {
	cfg     *config.Config
	version Version
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(cfg *config.Config, v Version) *StatusHandler {
	return &StatusHandler{cfg: cfg, version: v}
}

// Status reports the build version and where prefixed requests are sent.
func (h *StatusHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "ok",
		"version":      string(h.version),
		"prefix":       h.cfg.Relay.Prefix,
		"upstream_url": h.cfg.Upstream.BaseURL,
	})
}
