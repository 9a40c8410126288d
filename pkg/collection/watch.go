package collection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/herd/pkg/core"
	"github.com/aretw0/herd/pkg/observable"
)

// DefaultEventBuffer is the watch buffer size used when none is given.
const DefaultEventBuffer = 100

// Watch streams collection changes as events until ctx is cancelled, then
// closes the channel. Events are produced synchronously by mutations; when the
// buffer is full they are dropped (and logged) rather than blocking the mutation.
func (c *Collection[T]) Watch(ctx context.Context, buffer int) <-chan core.Event {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	sink := &eventSink{ch: make(chan core.Event, buffer), logger: c.cfg.Logger}

	var stop func()
	stop = c.Subscribe(func(change observable.Change[T]) {
		if sink.isClosed() {
			stop()
			c.watches--
			return
		}
		for _, e := range c.events(change) {
			sink.send(e)
		}
	})
	c.watches++

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		sink.close()
		return nil
	})

	return sink.ch
}

// events translates a list change into per-item events.
func (c *Collection[T]) events(change observable.Change[T]) []core.Event {
	now := time.Now().Unix()
	out := make([]core.Event, 0, len(change.Added)+len(change.Updated)+len(change.Removed))
	appendAll := func(items []T, typ core.EventType) {
		for _, item := range items {
			out = append(out, core.Event{Type: typ, ID: c.idOf(item), Timestamp: now})
		}
	}
	appendAll(change.Added, core.EventCreate)
	appendAll(change.Updated, core.EventModify)
	appendAll(change.Removed, core.EventDelete)
	return out
}

type eventSink struct {
	mu     sync.Mutex
	ch     chan core.Event
	closed bool
	logger *slog.Logger
}

func (s *eventSink) send(e core.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- e:
	default:
		s.logger.Warn("watch buffer full, event dropped", "event", e.String())
	}
}

func (s *eventSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *eventSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
