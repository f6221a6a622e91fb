package worker

import (
	"context"
	"log/slog"

	audit "vaxtrack/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A failed
// append is logged and the worker keeps going; audit must not stall callers.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

type Option func(*Worker)

func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) { w.logger = l }
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, opts ...Option) *Worker {
	w := &Worker{store: store, inbox: inbox, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the inbox until it is closed or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", string(event.Action),
					"error", err,
				)
			}
		}
	}
}
