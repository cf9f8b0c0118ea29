// Package ringlog keeps the N most recent log entries in a process-wide ring
// buffer so the debug routes can expose them without any persistence. The
// buffer lives from process start to process restart; entries beyond capacity
// silently displace the oldest.
package ringlog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Entry is one captured log line.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Buffer is a capacity-bounded, append-only ring of log entries. Safe for
// concurrent use.
type Buffer struct {
	mu       sync.Mutex
	entries  []Entry
	next     int
	wrapped  bool
	capacity int
}

// New creates a buffer holding at most capacity entries.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Append records an entry, displacing the oldest when full.
func (b *Buffer) Append(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next++
	if b.next == b.capacity {
		b.next = 0
		b.wrapped = true
	}
}

// Len reports how many entries are currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.wrapped {
		return b.capacity
	}
	return b.next
}

// Recent returns up to limit entries, oldest first. limit <= 0 means all.
func (b *Buffer) Recent(limit int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var ordered []Entry
	if b.wrapped {
		ordered = make([]Entry, 0, b.capacity)
		ordered = append(ordered, b.entries[b.next:]...)
		ordered = append(ordered, b.entries[:b.next]...)
	} else {
		ordered = make([]Entry, b.next)
		copy(ordered, b.entries[:b.next])
	}

	if limit > 0 && limit < len(ordered) {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}

// Handler is a slog.Handler tee: every record the inner handler accepts is
// also captured into the ring buffer. Attrs bound via WithAttrs are carried on
// the handler so captured entries keep their logger context, not just the
// call-site args.
type Handler struct {
	next  slog.Handler
	buf   *Buffer
	bound []slog.Attr
}

// Wrap tees an existing handler into buf.
func Wrap(next slog.Handler, buf *Buffer) *Handler {
	return &Handler{next: next, buf: buf}
}

// Enabled defers to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle captures the record, bound attrs included, and forwards it.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.bound)+r.NumAttrs())
	for _, a := range h.bound {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.buf.Append(Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   attrs,
	})
	return h.next.Handle(ctx, r)
}

// WithAttrs forwards to the wrapped handler and remembers the attrs so Handle
// can merge them into captured entries.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.bound)+len(attrs))
	bound = append(bound, h.bound...)
	bound = append(bound, attrs...)
	return &Handler{next: h.next.WithAttrs(attrs), buf: h.buf, bound: bound}
}

// WithGroup forwards to the wrapped handler, keeping the same buffer and bound
// attrs. Captured entries flatten group nesting.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name), buf: h.buf, bound: h.bound}
}
