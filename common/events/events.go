// Package events publishes knowledge base change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	PatternCreated                = "pattern.created"
	SolutionImplementationCreated = "solution_implementation.created"
	RelationshipCreated           = "relationship.created"
	EntityLinked                  = "entity.linked"
	CommentCreated                = "comment.created"
)

// Event is the JSON envelope sent on the channel
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

// New builds an event with a fresh id
func New(eventType string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher sends events somewhere
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// ChannelPublisher is the subset of the redis wrapper the publisher needs
type ChannelPublisher interface {
	PublishEvent(ctx context.Context, channel string, message string) error
}

// RedisPublisher publishes events as JSON on a redis pub/sub channel
type RedisPublisher struct {
	client  ChannelPublisher
	channel string
	logger  Logger
}

// NewRedisPublisher creates a publisher for channel
func NewRedisPublisher(client ChannelPublisher, channel string, logger Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// Publish marshals and sends event
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	if err := p.client.PublishEvent(ctx, p.channel, string(payload)); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	p.logger.Debug("published event", "type", event.Type, "id", event.ID)
	return nil
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// Publish does nothing
func (NoopPublisher) Publish(context.Context, Event) error { return nil }
