package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/handlers"
)

// RegisterRepositoryRoutes registers repository identifier routes
func RegisterRepositoryRoutes(e *echo.Echo, c *container.Container, mw ...echo.MiddlewareFunc) {
	h := handlers.NewRepositoryHandler(c)

	e.GET("/api/v1/ids", h.IDs, mw...) // GET /api/v1/ids
}
