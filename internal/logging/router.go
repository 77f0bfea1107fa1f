// Package logging provides the process logger: a single slog front end that
// fans records out to the console and to sinks attached at runtime, such as
// the per-run log file or a remote monitor stream.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Router is a slog.Handler that dispatches each record to a console handler
// and to every attached named sink. The level gate is shared: one SetLevel
// call affects the console and all sinks alike. Handlers derived via
// WithAttrs and WithGroup share the same sink table, so attaching a sink
// makes it visible to loggers created before the attachment.
type Router struct {
	state *routerState
	ops   []routerOp
}

type routerState struct {
	mu      sync.Mutex
	level   *slog.LevelVar
	console slog.Handler
	sinks   map[string]slog.Handler
}

// routerOp records one WithAttrs or WithGroup derivation, in order, so the
// attribute nesting slog promises can be rebuilt at dispatch time.
type routerOp struct {
	group string
	attrs []slog.Attr
}

// NewRouter builds a router whose console handler writes to out in the given
// format ("text" or "json"). The level starts at Info.
func NewRouter(out io.Writer, format string) *Router {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	var console slog.Handler
	if format == "json" {
		console = slog.NewJSONHandler(out, nil)
	} else {
		console = slog.NewTextHandler(out, nil)
	}
	return &Router{state: &routerState{
		level:   level,
		console: console,
		sinks:   make(map[string]slog.Handler),
	}}
}

// Logger returns a slog.Logger backed by this router.
func (r *Router) Logger() *slog.Logger {
	return slog.New(r)
}

// SetLevel changes the shared minimum level for all destinations.
func (r *Router) SetLevel(level slog.Level) {
	r.state.level.Set(level)
}

// Level returns the current shared minimum level.
func (r *Router) Level() slog.Level {
	return r.state.level.Level()
}

// Attach adds or replaces the sink registered under name.
func (r *Router) Attach(name string, h slog.Handler) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.sinks[name] = h
}

// Detach removes the sink registered under name, if present.
func (r *Router) Detach(name string) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	delete(r.state.sinks, name)
}

// Enabled implements slog.Handler. Gating happens here once; sinks receive
// every record that passes.
func (r *Router) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.state.level.Level()
}

// Handle implements slog.Handler by folding the derivation ops into the
// record and dispatching a clone to each destination. Sink errors do not
// stop dispatch to the remaining destinations.
func (r *Router) Handle(ctx context.Context, rec slog.Record) error {
	out := r.fold(rec)

	r.state.mu.Lock()
	handlers := make([]slog.Handler, 0, 1+len(r.state.sinks))
	handlers = append(handlers, r.state.console)
	names := make([]string, 0, len(r.state.sinks))
	for name := range r.state.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		handlers = append(handlers, r.state.sinks[name])
	}
	r.state.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, out.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs implements slog.Handler.
func (r *Router) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return r
	}
	derived := *r
	derived.ops = append(slices.Clip(r.ops), routerOp{attrs: attrs})
	return &derived
}

// WithGroup implements slog.Handler.
func (r *Router) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}
	derived := *r
	derived.ops = append(slices.Clip(r.ops), routerOp{group: name})
	return &derived
}

// fold rebuilds the record with the handler's accumulated attrs and groups
// applied, walking the ops newest-first so attrs land inside the groups
// opened before them.
func (r *Router) fold(rec slog.Record) slog.Record {
	if len(r.ops) == 0 {
		return rec
	}
	attrs := make([]slog.Attr, 0, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	for i := len(r.ops) - 1; i >= 0; i-- {
		op := r.ops[i]
		if op.group != "" {
			if len(attrs) == 0 {
				continue
			}
			attrs = []slog.Attr{{Key: op.group, Value: slog.GroupValue(attrs...)}}
			continue
		}
		attrs = append(slices.Clone(op.attrs), attrs...)
	}
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	out.AddAttrs(attrs...)
	return out
}
