package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/handlers"
)

// RegisterCommentRoutes registers discussion comment routes
func RegisterCommentRoutes(e *echo.Echo, c *container.Container, mw ...echo.MiddlewareFunc) {
	h := handlers.NewCommentHandler(c)

	discussions := e.Group("/api/v1/discussions", mw...)
	{
		discussions.GET("/:id/comments", h.List) // GET /api/v1/discussions/D_kwDO/comments?cursor=
		discussions.POST("/:id/comments", h.Add) // POST /api/v1/discussions/D_kwDO/comments
	}
}
