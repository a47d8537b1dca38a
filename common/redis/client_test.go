package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}
func (testLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (testLogger) Debug(msg string, keysAndValues ...interface{}) {}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClient(rdb, testLogger{}), mr
}

func TestClient_SetGet(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetWithExpiry(ctx, "k", "v", time.Minute))

	val, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)

	mr.FastForward(2 * time.Minute)

	_, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_DeleteByPrefix(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for _, k := range []string{"comments:D_1:", "comments:D_1:abc", "comments:D_2:"} {
		require.NoError(t, mr.Set(k, "x"))
	}

	deleted, err := c.DeleteByPrefix(ctx, "comments:D_1:")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.False(t, mr.Exists("comments:D_1:abc"))
	assert.True(t, mr.Exists("comments:D_2:"))
}

func TestClient_PublishEvent(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	sub := c.GetUnderlying().Subscribe(ctx, "events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, c.PublishEvent(ctx, "events", `{"type":"ping"}`))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"ping"}`, msg.Payload)
}

func TestClient_ErrorsWhenServerDown(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
