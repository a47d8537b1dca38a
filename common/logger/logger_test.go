package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestWithContextWithoutRequestID(t *testing.T) {
	log := Discard()
	assert.Same(t, log, log.WithContext(context.Background()))
}

func TestWithContextAddsRequestID(t *testing.T) {
	log := Discard()
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	assert.NotSame(t, log, log.WithContext(ctx))
}
