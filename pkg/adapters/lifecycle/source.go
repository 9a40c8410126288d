// Package lifecycle exposes collection change streams as lifecycle sources.
package lifecycle

import (
	"context"
	"errors"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/herd/pkg/core"
)

// Watcher is anything that streams change events until its context ends,
// such as a *collection.Collection.
type Watcher interface {
	Watch(ctx context.Context, buffer int) <-chan core.Event
}

type watchSource struct {
	watcher Watcher
	buffer  int
	out     chan lifecycle.Event
	started bool
}

// NewSource creates a lifecycle.Source that emits the events of w once started.
// buffer is handed to w.Watch; zero selects the watcher's default.
func NewSource(w Watcher, buffer int) lifecycle.Source {
	return &watchSource{
		watcher: w,
		buffer:  buffer,
		out:     make(chan lifecycle.Event),
	}
}

func (s *watchSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *watchSource) Start(ctx context.Context) error {
	if s.started {
		return errors.New("source already started")
	}
	s.started = true

	// Subscribe synchronously so no change made after Start returns is missed.
	events := s.watcher.Watch(ctx, s.buffer)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
