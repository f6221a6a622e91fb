package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	id "vaxtrack/pkg/domain"
	audit "vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/audit/worker"
	"vaxtrack/pkg/requestcontext"
)

// Publisher stamps events and hands them to a store, either inline or
// through a buffered queue drained by a worker.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	bufferSize int
	queue      chan audit.Event
	done       chan struct{}

	mu     sync.RWMutex
	closed bool
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous delivery with a queue of n events.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) { p.bufferSize = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.queue = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(store, p.queue, worker.WithLogger(p.logger))
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. When the queue is full or the publisher is closed
// the event is written inline so it is never dropped.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if uuid.UUID(event.ID) == uuid.Nil {
		event.ID = id.EventID(uuid.New())
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.queue != nil && !p.closed {
		select {
		case p.queue <- event:
			return nil
		default:
			p.logger.WarnContext(ctx, "audit queue full, writing inline",
				"action", string(event.Action),
			)
		}
	}
	return p.store.Append(context.WithoutCancel(ctx), event)
}

// Close stops accepting queued events and waits until the queue drains.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.queue != nil {
		close(p.queue)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}
