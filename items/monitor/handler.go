package monitor

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// streamHandler is the slog.Handler that forwards records over the monitor
// connection. Levels are not re-checked here: the router already gated the
// record before dispatching it.
type streamHandler struct {
	conn  conn
	attrs []slog.Attr
}

func (h *streamHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *streamHandler) Handle(_ context.Context, rec slog.Record) error {
	payload := map[string]any{
		"time":    rec.Time.Format(time.RFC3339Nano),
		"level":   rec.Level.String(),
		"message": rec.Message,
	}
	for _, a := range h.attrs {
		payload[a.Key] = a.Value.String()
	}
	rec.Attrs(func(a slog.Attr) bool {
		payload[a.Key] = a.Value.String()
		return true
	})
	h.conn.emit("log", payload)
	return nil
}

func (h *streamHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	derived.attrs = append(slices.Clip(h.attrs), attrs...)
	return &derived
}

// WithGroup flattens groups away; the wire payload is a single-level map.
func (h *streamHandler) WithGroup(string) slog.Handler {
	return h
}
