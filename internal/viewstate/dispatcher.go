package viewstate

import (
	"context"
	"sync"
)

// Dispatcher runs work on the foreground context that owns observable state.
type Dispatcher interface {
	Post(fn func())
}

// Immediate runs posted work on the caller's goroutine.
var Immediate Dispatcher = immediate{}

type immediate struct{}

func (immediate) Post(fn func()) { fn() }

// Loop runs posted work in order on the goroutine that calls Run.
// Work posted before Run starts is queued.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop creates an idle Loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn. It never blocks.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}

		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}
