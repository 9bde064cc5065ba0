package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"dev-cors-proxy/internal/config"
)

// CORS returns an Echo middleware that adds cross-origin headers to every
// response and answers pre-flight (OPTIONS) requests with 204 without calling
// the rest of the chain.
//
// Echo's CORS middleware only decorates requests that carry an Origin header.
// With a wildcard policy the allow-origin header is set up front so requests
// without one get it too.
func CORS(cfg config.CORSConfig) echo.MiddlewareFunc {
	cors := echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: cfg.ExposeHeaders,
		MaxAge:        cfg.MaxAge,
	})
	wildcard := cfg.WildcardOrigin()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := cors(next)
		return func(c echo.Context) error {
			if wildcard && c.Request().Header.Get(echo.HeaderOrigin) == "" {
				c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			}
			return h(c)
		}
	}
}
