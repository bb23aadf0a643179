// Package viewstate holds the observable primitives screens bind to.
//
// A Stream always has a latest value once set and replays it to new
// subscribers. An Event carries a single value that is delivered at most
// once, no matter how many subscribers come and go. Subscriptions are tied
// to a context; cancelling it detaches the subscriber.
package viewstate

import (
	"context"
	"sync"
)

// Stream is a value that changes over time. The zero value is an idle
// stream with no value.
type Stream[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64

	subs subscriberList[T]
}

// Set replaces the current value and notifies every subscriber.
func (s *Stream[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.version++
	version := s.version
	s.mu.Unlock()

	for _, sub := range s.subs.snapshot() {
		deliver(sub, v, version)
	}
}

// Get returns the current value and whether one has been set.
func (s *Stream[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.version > 0
}

// Subscribe calls fn with the current value, if any, and then with every
// later value until scope is done or the returned func is called.
func (s *Stream[T]) Subscribe(scope context.Context, fn func(T)) func() {
	sub := &subscriber[T]{fn: fn}
	cancel := s.subs.attach(scope, sub)

	s.mu.Lock()
	v, version := s.value, s.version
	s.mu.Unlock()

	if version > 0 {
		deliver(sub, v, version)
	}
	return cancel
}

// Subscribers returns the number of attached subscribers.
func (s *Stream[T]) Subscribers() int {
	return s.subs.count()
}

// deliver hands v to sub unless sub has already seen a newer value.
func deliver[T any](sub *subscriber[T], v T, version uint64) {
	sub.mu.Lock()
	if version <= sub.seen {
		sub.mu.Unlock()
		return
	}
	sub.seen = version
	sub.mu.Unlock()

	sub.fn(v)
}
