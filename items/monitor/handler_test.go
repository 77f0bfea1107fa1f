package monitor

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStreamHandler_BuildsAFlatPayload(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	c := &fakeConn{}
	var h slog.Handler = &streamHandler{conn: c}
	h = h.WithAttrs([]slog.Attr{slog.String("run_id", "r-1")})
	h = h.WithGroup("batch")

	rec := slog.NewRecord(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC), slog.LevelWarn, "loss spiked", 0)
	rec.AddAttrs(slog.Int("epoch", 7))

	// --- Act ---
	require.NoError(t, h.Handle(context.Background(), rec))

	// --- Assert ---
	require.Len(t, c.events, 1)
	payload := c.events[0]
	require.Equal(t, "loss spiked", payload["message"])
	require.Equal(t, "WARN", payload["level"])
	require.Equal(t, "r-1", payload["run_id"])
	require.Equal(t, "7", payload["epoch"], "groups flatten away on the wire")
	require.Equal(t, "2026-08-25T12:00:00Z", payload["time"])
}

func TestStreamHandler_IsNeverItsOwnGate(t *testing.T) {
	t.Parallel()

	h := &streamHandler{conn: &fakeConn{}}
	require.True(t, h.Enabled(context.Background(), slog.LevelDebug),
		"gating belongs to the router, records arriving here are already admitted")
}

func TestStreamHandler_DerivedHandlersDoNotShareAttrs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	c := &fakeConn{}
	base := &streamHandler{conn: c}
	first := base.WithAttrs([]slog.Attr{slog.String("a", "1")})
	second := base.WithAttrs([]slog.Attr{slog.String("b", "2")})

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	// --- Act ---
	require.NoError(t, first.Handle(context.Background(), rec))
	require.NoError(t, second.Handle(context.Background(), rec))

	// --- Assert ---
	require.Len(t, c.events, 2)
	require.Equal(t, "1", c.events[0]["a"])
	require.NotContains(t, c.events[0], "b")
	require.Equal(t, "2", c.events[1]["b"])
	require.NotContains(t, c.events[1], "a")
}
