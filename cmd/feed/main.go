package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lyzr/patternatlas/common/bootstrap"
	"github.com/lyzr/patternatlas/common/server"
)

const serviceName = "feed"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The feed only needs redis
	components, err := bootstrap.Setup(ctx, serviceName, bootstrap.WithoutCache(), bootstrap.WithoutTelemetry())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap %s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	if components.Redis == nil {
		components.Logger.Error("feed requires REDIS_ENABLED=true")
		os.Exit(1)
	}

	hub := NewHub(components.Logger)
	go hub.Run(ctx)

	subscriber := NewSubscriber(components.Redis.GetUnderlying(), components.Config.Redis.Channel, hub, components.Logger)
	go func() {
		if err := subscriber.Start(ctx); err != nil {
			components.Logger.Error("subscriber stopped", "error", err)
			stop()
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	h := NewFeedHandler(hub)
	e.GET("/ws", h.Subscribe)
	e.GET("/api/v1/feed/stats", h.Stats)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": serviceName,
		})
	})

	srv := server.New(serviceName, components.Config.Service.Port, e, components.Logger)
	if err := srv.Run(ctx); err != nil {
		components.Logger.Error("server error", "error", err)
	}
}
