package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/juicelabs/juice-content/cmd/contentd/handlers"
)

// RegisterContentRoutes registers the document-store routes
func RegisterContentRoutes(g *echo.Group, handler *handlers.ContentHandler) {
	g.GET("/content", handler.GetContent)
	g.POST("/content", handler.CreateContent)
	g.PATCH("/content", handler.UpdateContent)
	g.DELETE("/content", handler.DeleteContent)
	g.GET("/content/list", handler.ListContent)
}
