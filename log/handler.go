package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
)

// HostHandler implements slog.Handler by serialising records and handing
// them to a send function, which delivers them to the host.
type HostHandler struct {
	level slog.Leveler
	send  func([]byte)
	attrs []LogAttrWire
	group string
}

// NewHostHandler returns a handler delivering records at or above level.
func NewHostHandler(level slog.Leveler, send func([]byte)) *HostHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &HostHandler{level: level, send: send}
}

// Enabled reports whether the handler handles records at the given level.
func (h *HostHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle serializes a slog.Record and sends it to the host.
func (h *HostHandler) Handle(_ context.Context, record slog.Record) error {
	msg := LogMessageWire{
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
		Attrs:     slices.Clone(h.attrs),
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = appendAttrWire(msg.Attrs, h.group, attr)
		return true
	})

	data, err := json.Marshal(msg)
	if err != nil {
		// slog would recurse into this handler.
		fmt.Fprintf(os.Stderr, "numext: failed to marshal log message: %v, original: %s\n", err, record.Message)
		return err
	}
	h.send(data)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *HostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		h2.attrs = appendAttrWire(h2.attrs, h.group, a)
	}
	return &h2
}

// WithGroup returns a handler that qualifies subsequent attributes with name.
func (h *HostHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h2.group != "" {
		h2.group += "." + name
	} else {
		h2.group = name
	}
	return &h2
}
