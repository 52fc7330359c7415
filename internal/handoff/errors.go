package handoff

import "errors"

// Common errors
var (
	// ErrInvalidPolicy is returned when a policy outside {FIFO, LIFO} is used.
	ErrInvalidPolicy = errors.New("unknown ordering policy")

	// ErrNoConsumer is returned when tasks are enqueued with no consumer bound.
	ErrNoConsumer = errors.New("no consumer bound")

	// ErrConsumerBound is returned when a consumer is already bound; the
	// existing binding is retained.
	ErrConsumerBound = errors.New("consumer already bound")

	// ErrNilCallback is returned when a nil function is passed where a
	// callback is required.
	ErrNilCallback = errors.New("callback must not be nil")

	// ErrClosed is returned by every mutating operation after Close.
	ErrClosed = errors.New("queue is closed")
)
