package viewstate

import (
	"context"
	"slices"
	"sync"
)

type subscriber[T any] struct {
	fn func(T)

	mu   sync.Mutex
	seen uint64
}

// subscriberList keeps subscribers in attach order.
type subscriberList[T any] struct {
	mu   sync.Mutex
	subs []*subscriber[T]
}

func (l *subscriberList[T]) add(sub *subscriber[T]) {
	l.mu.Lock()
	l.subs = append(l.subs, sub)
	l.mu.Unlock()
}

func (l *subscriberList[T]) remove(sub *subscriber[T]) {
	l.mu.Lock()
	l.subs = slices.DeleteFunc(l.subs, func(s *subscriber[T]) bool { return s == sub })
	l.mu.Unlock()
}

func (l *subscriberList[T]) snapshot() []*subscriber[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.subs)
}

func (l *subscriberList[T]) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// attach registers sub and ties its lifetime to scope. The returned func
// detaches it; calling it more than once is harmless.
func (l *subscriberList[T]) attach(scope context.Context, sub *subscriber[T]) func() {
	l.add(sub)

	var once sync.Once
	var stop func() bool
	cancel := func() {
		once.Do(func() {
			l.remove(sub)
			if stop != nil {
				stop()
			}
		})
	}
	if scope != nil {
		stop = context.AfterFunc(scope, cancel)
	}
	return cancel
}
