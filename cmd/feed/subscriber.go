package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/logger"
)

// Subscriber forwards events from the redis channel to the hub
type Subscriber struct {
	redis   *redis.Client
	channel string
	hub     *Hub
	log     *logger.Logger
}

// NewSubscriber creates a new Subscriber instance
func NewSubscriber(redisClient *redis.Client, channel string, hub *Hub, log *logger.Logger) *Subscriber {
	return &Subscriber{
		redis:   redisClient,
		channel: channel,
		hub:     hub,
		log:     log,
	}
}

// Start listens until ctx is done. It returns an error only when the subscription cannot be set up.
func (s *Subscriber) Start(ctx context.Context) error {
	pubsub := s.redis.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// Wait for confirmation that subscription was successful
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	s.log.Info("redis subscription confirmed", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil || event.Type == "" {
				s.log.Warn("dropping malformed event", "channel", msg.Channel, "size", len(msg.Payload))
				continue
			}

			s.hub.Publish(&Message{Type: event.Type, Data: []byte(msg.Payload)})
		}
	}
}
