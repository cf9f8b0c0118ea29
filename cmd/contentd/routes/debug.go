package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/juicelabs/juice-content/cmd/contentd/handlers"
	"github.com/juicelabs/juice-content/cmd/contentd/middleware"
)

// RegisterDebugRoutes registers the token-guarded diagnostics routes
func RegisterDebugRoutes(g *echo.Group, handler *handlers.DebugHandler, debugToken string) {
	debug := g.Group("/debug", middleware.RequireDebugToken(debugToken))
	debug.GET("/logs", handler.GetLogs)
	debug.GET("/bucket", handler.GetBucket)
	debug.GET("/config", handler.GetConfig)
}
