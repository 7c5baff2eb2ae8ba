package notation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

type renderIDKey struct{}

// RenderID identifies one render pass in logs. Watch mode issues a new ID
// for every re-render.
type RenderID string

// String returns the string representation of the render ID.
func (id RenderID) String() string {
	return string(id)
}

// NewRenderID generates a random 16-character hex ID.
func NewRenderID() RenderID {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return RenderID("00000000-fallback")
	}
	return RenderID(hex.EncodeToString(b))
}

// WithRenderID returns a context carrying id. An empty id is generated.
func WithRenderID(ctx context.Context, id RenderID) context.Context {
	if id == "" {
		id = NewRenderID()
	}
	return context.WithValue(ctx, renderIDKey{}, id)
}

// RenderIDFromContext returns the render ID in ctx, or "".
func RenderIDFromContext(ctx context.Context) RenderID {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(renderIDKey{}).(RenderID); ok {
		return id
	}
	return ""
}

// RenderIDHandler adds the render ID from the record's context as a
// render_id attribute. Use the logger's *Context methods to pass it.
type RenderIDHandler struct {
	inner slog.Handler
}

// NewRenderIDHandler wraps inner.
func NewRenderIDHandler(inner slog.Handler) *RenderIDHandler {
	return &RenderIDHandler{inner: inner}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RenderIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds render_id when ctx carries one.
func (h *RenderIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RenderIDFromContext(ctx); id != "" {
		r = r.Clone()
		r.AddAttrs(slog.String("render_id", string(id)))
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes.
func (h *RenderIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RenderIDHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *RenderIDHandler) WithGroup(name string) slog.Handler {
	return &RenderIDHandler{inner: h.inner.WithGroup(name)}
}
