package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"dev-cors-proxy/internal/config"
)

// Guards returns the optional request guards enabled in cfg, in the order they
// should run. Both are off by default.
func Guards(cfg config.ServerConfig) []echo.MiddlewareFunc {
	var mws []echo.MiddlewareFunc
	if cfg.BodyMaxBytes > 0 {
		mws = append(mws, echomw.BodyLimit(fmt.Sprintf("%dB", cfg.BodyMaxBytes)))
	}
	if cfg.RateLimit.Enabled {
		store := echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit.RequestsPerSecond))
		mws = append(mws, echomw.RateLimiter(store))
	}
	return mws
}
