package viewstate

import (
	"context"
	"sync/atomic"
)

// EventState is the delivery state of an Event.
type EventState int32

const (
	// Idle means nothing has been published.
	Idle EventState = iota
	// HasValue means the latest value is waiting for a subscriber.
	HasValue
	// Consumed means the latest value has been delivered.
	Consumed
)

func (s EventState) String() string {
	switch s {
	case Idle:
		return "idle"
	case HasValue:
		return "has_value"
	case Consumed:
		return "consumed"
	default:
		return "unknown"
	}
}

type envelope[T any] struct {
	value T
	state atomic.Int32
}

// take claims the value. Only one caller ever succeeds.
func (e *envelope[T]) take() bool {
	return e.state.CompareAndSwap(int32(HasValue), int32(Consumed))
}

// Event is a one-shot stream: each published value reaches exactly one
// subscriber, either one already attached or the next to attach.
type Event[T any] struct {
	current atomic.Pointer[envelope[T]]
	subs    subscriberList[T]
}

// Publish makes v the pending value, replacing any value not yet delivered,
// and hands it to the earliest attached subscriber.
func (e *Event[T]) Publish(v T) {
	env := &envelope[T]{value: v}
	env.state.Store(int32(HasValue))
	e.current.Store(env)

	if subs := e.subs.snapshot(); len(subs) > 0 && env.take() {
		subs[0].fn(v)
	}
}

// Subscribe attaches fn until scope is done or the returned func is called.
// A pending value is delivered to fn immediately.
func (e *Event[T]) Subscribe(scope context.Context, fn func(T)) func() {
	sub := &subscriber[T]{fn: fn}
	cancel := e.subs.attach(scope, sub)

	if env := e.current.Load(); env != nil && env.take() {
		fn(env.value)
	}
	return cancel
}

// State reports whether the latest value is still pending.
func (e *Event[T]) State() EventState {
	env := e.current.Load()
	if env == nil {
		return Idle
	}
	return EventState(env.state.Load())
}

// Subscribers returns the number of attached subscribers.
func (e *Event[T]) Subscribers() int {
	return e.subs.count()
}
