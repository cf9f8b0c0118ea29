package ringlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(msg string) Entry {
	return Entry{Time: time.Now(), Level: "INFO", Message: msg}
}

func TestBufferBelowCapacity(t *testing.T) {
	b := New(5)
	b.Append(entry("one"))
	b.Append(entry("two"))

	assert.Equal(t, 2, b.Len())

	got := b.Recent(0)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, "two", got[1].Message)
}

func TestBufferDisplacesOldest(t *testing.T) {
	b := New(3)
	for i := 1; i <= 5; i++ {
		b.Append(entry(fmt.Sprintf("msg-%d", i)))
	}

	assert.Equal(t, 3, b.Len())

	got := b.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "msg-3", got[0].Message)
	assert.Equal(t, "msg-5", got[2].Message)
}

func TestRecentLimit(t *testing.T) {
	b := New(10)
	for i := 1; i <= 6; i++ {
		b.Append(entry(fmt.Sprintf("msg-%d", i)))
	}

	got := b.Recent(2)
	require.Len(t, got, 2)
	// Recent keeps chronological order and trims from the old end.
	assert.Equal(t, "msg-5", got[0].Message)
	assert.Equal(t, "msg-6", got[1].Message)
}

func TestHandlerCapturesRecords(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(Wrap(inner, buf))

	log.Info("document stored", "key", "blog/post.md")
	log.Warn("listing degraded")

	got := buf.Recent(0)
	require.Len(t, got, 2)
	assert.Equal(t, "document stored", got[0].Message)
	assert.Equal(t, "blog/post.md", got[0].Attrs["key"])
	assert.Equal(t, "WARN", got[1].Level)
}

func TestHandlerCapturesBoundAttrs(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(Wrap(inner, buf)).With("operation_id", "op-123", "slug", "my-post")

	log.Info("delete sweep finished", "matched", 2)

	got := buf.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "op-123", got[0].Attrs["operation_id"])
	assert.Equal(t, "my-post", got[0].Attrs["slug"])
	assert.Equal(t, int64(2), got[0].Attrs["matched"])
}

func TestHandlerAccumulatesBoundAttrs(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(Wrap(inner, buf)).With("slug", "my-post")

	// A second With layer keeps the first layer's attrs.
	log.With("key", "blog/my-post.md").Info("document stored")

	got := buf.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "my-post", got[0].Attrs["slug"])
	assert.Equal(t, "blog/my-post.md", got[0].Attrs["key"])
}

func TestHandlerRespectsInnerLevel(t *testing.T) {
	buf := New(10)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := Wrap(inner, buf)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
