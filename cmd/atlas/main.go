package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lyzr/patternatlas/cmd/atlas/container"
	"github.com/lyzr/patternatlas/cmd/atlas/routes"
	"github.com/lyzr/patternatlas/common/bootstrap"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/server"
)

const serviceName = "atlas"

func main() {
	ctx := context.Background()

	// Bootstrap common components (logger, redis, cache, metrics, telemetry)
	components, err := bootstrap.Setup(ctx, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap %s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, serviceContainer)
	routes.Register(e, serviceContainer)

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), logger.RequestIDKey, id)))
		},
	}))
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, c *container.Container) {
	e.GET("/health", func(ec echo.Context) error {
		body := map[string]interface{}{
			"status":  "ok",
			"service": serviceName,
		}
		// Last GitHub failure seen by the store, cleared by the next success
		if msg := c.Store.Err(); msg != "" {
			body["last_error"] = msg
		}

		if err := c.Components.Health(ec.Request().Context()); err != nil {
			body["status"] = "degraded"
			body["error"] = err.Error()
			return ec.JSON(http.StatusServiceUnavailable, body)
		}
		return ec.JSON(http.StatusOK, body)
	})
}

// startServer serves until SIGINT or SIGTERM, then drains in-flight requests
func startServer(e *echo.Echo, components *bootstrap.Components) {
	port := components.Config.Service.Port
	srv := server.New(serviceName, port, e, components.Logger)

	if err := srv.Start(); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
