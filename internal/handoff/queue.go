// internal/handoff/queue.go

package handoff

import (
	"context"
	"log/slog"
	"sync"

	"github.com/emirpasic/gods/lists/doublylinkedlist"

	"handq/internal/signal"
)

// Task is an opaque unit of work handed to the bound consumer. The queue
// assumes nothing about its type, identity, or equality.
type Task = any

// Consumer receives tasks one at a time and must call Acknowledge on the
// queue after processing each one before the next is delivered.
type Consumer func(Task)

// Filter decides whether a pending task reaches the consumer. Tasks it
// rejects are silently dropped at selection time, without acknowledgment.
type Filter func(Task) bool

// Queue is a single-consumer hand-off queue: producers enqueue with Add,
// exactly one bound consumer receives tasks one at a time, and each task
// must be acknowledged before the next is delivered. A background drain
// loop runs only while tasks are pending.
type Queue struct {
	mu      sync.Mutex // protects all fields below
	pending *doublylinkedlist.List
	policy  Policy
	filter  Filter
	active  bool
	closed  bool

	consumer    *signal.Subscription
	drainCancel context.CancelFunc

	// deliver hands tasks to the consumer, ack is the gate the consumer
	// releases, empty announces queue exhaustion to observers.
	deliver *signal.Signal
	ack     *signal.Signal
	empty   *signal.Signal

	log *slog.Logger
}

// New creates an idle queue with no consumer bound. An unknown policy in
// cfg falls back to FIFO.
func New(cfg Config) *Queue {
	p, err := ParsePolicy(cfg.Policy)
	if err != nil {
		p = FIFO
	}

	return &Queue{
		pending: doublylinkedlist.New(),
		policy:  p,
		deliver: signal.New(),
		ack:     signal.New(),
		empty:   signal.New(),
		log:     slog.Default(),
	}
}

// Bind registers fn as the queue's sole consumer. It must be called before
// any task can be enqueued. Binding while a consumer is already bound is
// reported and ignored; the existing binding is retained.
func (q *Queue) Bind(fn Consumer) error {
	if fn == nil {
		return ErrNilCallback
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.consumer != nil {
		q.log.Warn("consumer already bound, ignoring bind")
		return ErrConsumerBound
	}

	q.consumer = q.deliver.Subscribe(func(v any) {
		defer func() {
			if r := recover(); r != nil {
				q.log.Warn("consumer callback panicked", slog.Any("panic", r))
			}
		}()
		fn(v)
	})
	return nil
}

// Unbind removes the current consumer, if any. An active drain loop
// observes the missing binding at its next selection and exits, clearing
// all pending tasks; a task already delivered is still removed normally
// first.
func (q *Queue) Unbind() {
	q.mu.Lock()
	if q.consumer == nil {
		q.mu.Unlock()
		return
	}
	q.consumer.Unsubscribe()
	q.consumer = nil
	q.mu.Unlock()

	// Release a drain loop blocked on the gate so it observes the missing
	// binding instead of waiting for an acknowledgment nobody can send.
	q.ack.Publish(nil)
}

// SetPolicy switches the ordering policy. Effective immediately: the drain
// loop's next selection uses the new policy; already-delivered tasks are
// never reordered.
func (q *Queue) SetPolicy(p Policy) error {
	if !p.Valid() {
		return ErrInvalidPolicy
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.policy = p
	return nil
}

// AttachFilter installs fn as the queue's filter predicate, replacing any
// previous one. The predicate runs lazily, once per candidate immediately
// before delivery, so tasks enqueued before the filter existed are still
// subject to it.
func (q *Queue) AttachFilter(fn Filter) error {
	if fn == nil {
		return ErrNilCallback
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.filter = fn
	return nil
}

// DetachFilter removes the filter predicate, if any.
func (q *Queue) DetachFilter() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.filter = nil
}

// Add appends tasks to the pending sequence in the order given. If the
// queue was idle this spawns the drain loop; an already-running loop picks
// the new tasks up on a later iteration, so at most one loop ever runs.
func (q *Queue) Add(tasks ...Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.consumer == nil {
		return ErrNoConsumer
	}

	for _, t := range tasks {
		q.pending.Add(t)
	}

	if !q.active && q.pending.Size() > 0 {
		q.active = true
		ctx, cancel := context.WithCancel(context.Background())
		q.drainCancel = cancel
		go q.drain(ctx)
	}
	return nil
}

// Acknowledge signals that the consumer has finished the current task.
// Only a drain loop currently waiting is released; unsolicited calls do
// not accumulate credits.
func (q *Queue) Acknowledge() {
	q.ack.Publish(nil)
}

// Len returns the number of pending tasks, including one that has been
// delivered but not yet acknowledged.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.pending.Size()
}

// OnEmpty registers fn to run each time a drain cycle exhausts the queue.
// Listeners fire in registration order, once per exhaustion, not once per
// removed task. The returned subscription unregisters the listener.
func (q *Queue) OnEmpty(fn func()) (*signal.Subscription, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}
	return q.empty.Subscribe(func(any) { fn() }), nil
}

// Close halts the queue abruptly: a running drain loop is cancelled (a
// task awaiting acknowledgment is abandoned, not completed), the consumer
// is unbound, and all state is released. Every later mutating operation
// returns ErrClosed. Close is idempotent.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true

	if q.drainCancel != nil {
		q.drainCancel()
		q.drainCancel = nil
	}
	if q.consumer != nil {
		q.consumer.Unsubscribe()
		q.consumer = nil
	}
	q.pending.Clear()
	q.active = false
	q.filter = nil
	q.mu.Unlock()

	// Release a drain loop still armed on the gate so its goroutine
	// cannot linger blocked after cancellation.
	q.ack.Publish(nil)
	return nil
}
