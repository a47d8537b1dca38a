package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lyzr/patternatlas/common/clients"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UsernameKey is the context key for storing the caller's username
	UsernameKey ContextKey = "username"
)

// ExtractUsername stores the X-User-ID header in the echo context and the request context.
// The rate limiter charges mutations against this name.
func ExtractUsername() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username := c.Request().Header.Get("X-User-ID")
			if username != "" {
				c.Set(string(UsernameKey), username)
				req := c.Request()
				c.SetRequest(req.WithContext(clients.WithUserID(req.Context(), username)))
			}
			return next(c)
		}
	}
}

// ForwardToken moves an Authorization bearer token into the request context
// so GitHub calls for this request use it instead of the configured token.
func ForwardToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			auth := req.Header.Get(echo.HeaderAuthorization)

			token, ok := strings.CutPrefix(auth, "Bearer ")
			token = strings.TrimSpace(token)
			if ok && token != "" {
				c.SetRequest(req.WithContext(clients.WithToken(req.Context(), token)))
			}
			return next(c)
		}
	}
}

// GetUsername retrieves the username from the echo context
// Returns empty string if not set
func GetUsername(c echo.Context) string {
	username, _ := c.Get(string(UsernameKey)).(string)
	return username
}
