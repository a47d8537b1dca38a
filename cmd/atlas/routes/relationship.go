package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/handlers"
)

// RegisterRelationshipRoutes registers relationship routes
func RegisterRelationshipRoutes(e *echo.Echo, c *container.Container, mw ...echo.MiddlewareFunc) {
	h := handlers.NewRelationshipHandler(c)

	relationships := e.Group("/api/v1/relationships", mw...)
	{
		relationships.POST("", h.Create)               // POST /api/v1/relationships
		relationships.GET("/:number", h.Get)           // GET /api/v1/relationships/55
		relationships.GET("/:number/linked", h.Linked) // GET /api/v1/relationships/55/linked?source=12
	}
}
