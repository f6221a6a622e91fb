package feed

import (
	"context"
	"sync"

	"vaxtrack/internal/coldchain/models"
)

type subscription struct {
	in   chan models.Reading
	done chan struct{}
	once sync.Once
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// Memory is an in-process Feed for single-node deployments and tests.
type Memory struct {
	mu     sync.Mutex
	subs   map[*subscription]struct{}
	buffer int
}

func NewMemory(buffer int) *Memory {
	return &Memory{subs: make(map[*subscription]struct{}), buffer: buffer}
}

// Publish delivers to every current subscriber, blocking on a full buffer
// until ctx is done.
func (f *Memory) Publish(ctx context.Context, r *models.Reading) error {
	f.mu.Lock()
	subs := make([]*subscription, 0, len(f.subs))
	for s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	for _, s := range subs {
		select {
		case s.in <- *r:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *Memory) Subscribe(ctx context.Context) (<-chan models.Reading, error) {
	s := &subscription{
		in:   make(chan models.Reading, f.buffer),
		done: make(chan struct{}),
	}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()

	out := make(chan models.Reading)
	go func() {
		defer close(out)
		defer f.remove(s)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case r := <-s.in:
				select {
				case out <- r:
				case <-ctx.Done():
					return
				case <-s.done:
					return
				}
			}
		}
	}()
	return out, nil
}

// CloseSubscriptions ends every open subscription, as a dropped connection
// would.
func (f *Memory) CloseSubscriptions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s := range f.subs {
		s.stop()
		delete(f.subs, s)
	}
}

// Subscribers reports how many subscriptions are open.
func (f *Memory) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Memory) remove(s *subscription) {
	s.stop()
	f.mu.Lock()
	delete(f.subs, s)
	f.mu.Unlock()
}
