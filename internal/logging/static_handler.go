package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID identifies one CLI invocation in the log file.
const FieldSessionID = "session_id"

// staticAttrHandler appends fixed attributes to every record at handle time,
// after any group the caller opened, so they stay top-level keys.
type staticAttrHandler struct {
	base  slog.Handler
	attrs []slog.Attr
}

func newStaticAttrHandler(base slog.Handler, attrs ...slog.Attr) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	if len(attrs) == 0 {
		return base
	}
	return &staticAttrHandler{base: base, attrs: append([]slog.Attr(nil), attrs...)}
}

func newSessionIDHandler(base slog.Handler, sessionID string) slog.Handler {
	return newStaticAttrHandler(base, slog.String(FieldSessionID, sessionID))
}

func (h *staticAttrHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *staticAttrHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.attrs...)
	return h.base.Handle(ctx, record)
}

func (h *staticAttrHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &staticAttrHandler{base: h.base.WithAttrs(attrs), attrs: h.attrs}
}

func (h *staticAttrHandler) WithGroup(name string) slog.Handler {
	return &staticAttrHandler{base: h.base.WithGroup(name), attrs: h.attrs}
}
