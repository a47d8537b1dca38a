package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/redis"
)

func TestRedisPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, "atlas:events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(redis.NewClient(rdb, logger.Discard()), "atlas:events", logger.Discard())
	event := New(PatternCreated, map[string]any{"number": 12})
	require.NoError(t, pub.Publish(ctx, event))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, PatternCreated, got.Type)
	assert.EqualValues(t, 12, got.Data["number"])
}

func TestRedisPublisher_Error(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	pub := NewRedisPublisher(redis.NewClient(rdb, logger.Discard()), "atlas:events", logger.Discard())
	err := pub.Publish(context.Background(), New(CommentCreated, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), CommentCreated)
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	a := New(EntityLinked, nil)
	b := New(EntityLinked, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), a))
}
