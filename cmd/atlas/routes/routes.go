package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	atlasmw "github.com/lyzr/patternatlas/cmd/atlas/middleware"
	"github.com/lyzr/patternatlas/common/middleware"
)

// Register registers every API route. Rate limiting is attached when the container has a limiter.
func Register(e *echo.Echo, c *container.Container) {
	mw := []echo.MiddlewareFunc{
		atlasmw.ExtractUsername(),
		atlasmw.ForwardToken(),
	}

	if c.RateLimiter != nil && c.Components.Config.RateLimit.Enabled {
		rl := c.Components.Config.RateLimit
		mw = append(mw,
			middleware.GlobalRateLimitMiddleware(c.RateLimiter, int64(rl.GlobalPerMin), rl.InternalSecret),
			middleware.MutationRateLimitMiddleware(c.RateLimiter, int64(rl.UserPerMin), rl.InternalSecret),
		)
	}

	RegisterRepositoryRoutes(e, c, mw...)
	RegisterEntityRoutes(e, c, mw...)
	RegisterRelationshipRoutes(e, c, mw...)
	RegisterCommentRoutes(e, c, mw...)
}
