package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DebugTokenHeader is the header carrying the debug-route secret.
const DebugTokenHeader = "X-Debug-Token"

// RequireDebugToken guards debug routes with a static shared secret, compared
// by exact string equality. The token is read from the X-Debug-Token header,
// falling back to the debug_token query parameter. An unconfigured secret
// disables the routes entirely rather than leaving them open.
func RequireDebugToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"error": "debug routes are not configured",
				})
			}

			token := c.Request().Header.Get(DebugTokenHeader)
			if token == "" {
				token = c.QueryParam("debug_token")
			}

			if token != secret {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "invalid or missing debug token",
				})
			}

			return next(c)
		}
	}
}
