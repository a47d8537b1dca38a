package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/patternatlas/common/ratelimit"
)

// isInternalRequest checks if the request is from an internal service
// Internal services set X-Internal-Service header to bypass rate limits
func isInternalRequest(c echo.Context, secret string) bool {
	if secret == "" {
		return false
	}
	return c.Request().Header.Get("X-Internal-Service") == secret
}

// GlobalRateLimitMiddleware checks the global service-wide rate limit
// Protects the discussion host quota from being exhausted by bursts
// Skips rate limiting for internal service-to-service calls
func GlobalRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64, internalSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Skip rate limiting for internal service calls
			if isInternalRequest(c, internalSecret) {
				return next(c)
			}

			result, err := rateLimiter.CheckGlobalLimit(c.Request().Context(), limit)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "global_rate_limit_exceeded",
					"message": "Service is experiencing high load. Please try again later.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window":              "60 seconds",
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}

// MutationRateLimitMiddleware charges each write request against the caller's quota
// Requires username to be set in context by ExtractUsername middleware
// Reads and internal service calls pass through
func MutationRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64, internalSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isInternalRequest(c, internalSecret) {
				return next(c)
			}

			mutation, ok := ratelimit.ClassifyRequest(c.Request().Method, c.Request().URL.Path)
			if !ok {
				return next(c)
			}

			// Get username from context (set by ExtractUsername middleware)
			username, ok := c.Get("username").(string)
			if !ok || username == "" {
				username = "anonymous"
			}

			result, err := rateLimiter.CheckMutationLimit(c.Request().Context(), username, mutation, limit)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "user_rate_limit_exceeded",
					"message": "You have exceeded your write quota. Please wait before trying again.",
					"details": map[string]interface{}{
						"username":            username,
						"mutation":            mutation,
						"cost":                ratelimit.CostOf(mutation),
						"limit":               result.Limit,
						"window":              "60 seconds",
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
