package main

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedHandler upgrades requests to WebSocket subscriptions
type FeedHandler struct {
	hub *Hub
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(hub *Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Subscribe upgrades the connection and registers it with the hub
// GET /ws?types=pattern.created,comment.created
func (h *FeedHandler) Subscribe(c echo.Context) error {
	var types []string
	if raw := c.QueryParam("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := NewClient(h.hub, conn, c.RealIP(), types)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// Stats reports the number of connected subscribers
// GET /api/v1/feed/stats
func (h *FeedHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"connections": h.hub.ConnectionCount(),
	})
}
