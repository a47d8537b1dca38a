package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/handlers"
	"github.com/lyzr/patternatlas/common/models"
)

// RegisterEntityRoutes registers pattern and solution implementation routes
func RegisterEntityRoutes(e *echo.Echo, c *container.Container, mw ...echo.MiddlewareFunc) {
	p := handlers.NewEntityHandler(c, models.KindPattern)

	patterns := e.Group("/api/v1/patterns", mw...)
	{
		patterns.GET("", p.List)                                // GET /api/v1/patterns?cursor=
		patterns.POST("", p.Create)                             // POST /api/v1/patterns
		patterns.GET("/:number", p.Get)                         // GET /api/v1/patterns/12
		patterns.GET("/:number/relationships", p.Relationships) // GET /api/v1/patterns/12/relationships
	}

	s := handlers.NewEntityHandler(c, models.KindSolutionImplementation)

	solutions := e.Group("/api/v1/solutions", mw...)
	{
		solutions.GET("", s.List)                                // GET /api/v1/solutions?cursor=
		solutions.POST("", s.Create)                             // POST /api/v1/solutions
		solutions.GET("/:number", s.Get)                         // GET /api/v1/solutions/40
		solutions.GET("/:number/relationships", s.Relationships) // GET /api/v1/solutions/40/relationships
	}
}
