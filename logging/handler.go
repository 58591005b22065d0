package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// lockedHandler fans a record out to several handlers while holding a mutex
// shared by every handler derived from it.
type lockedHandler struct {
	mu       *sync.Mutex
	handlers []slog.Handler
}

var _ slog.Handler = (*lockedHandler)(nil)

func newLockedHandler(handlers ...slog.Handler) *lockedHandler {
	return &lockedHandler{
		mu:       &sync.Mutex{},
		handlers: handlers,
	}
}

func (h *lockedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, inner := range h.handlers {
		if inner.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *lockedHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, inner := range h.handlers {
		if !inner.Enabled(ctx, r.Level) {
			continue
		}
		if err := inner.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *lockedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, inner := range h.handlers {
		handlers[i] = inner.WithAttrs(attrs)
	}
	return &lockedHandler{mu: h.mu, handlers: handlers}
}

func (h *lockedHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, inner := range h.handlers {
		handlers[i] = inner.WithGroup(name)
	}
	return &lockedHandler{mu: h.mu, handlers: handlers}
}
