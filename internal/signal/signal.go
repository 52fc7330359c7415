// internal/signal/signal.go

package signal

import "sync"

// Signal is a small synchronous publish/subscribe primitive. Listeners
// registered with Subscribe are invoked in registration order on every
// Publish. Await arms a one-shot waiter whose channel receives the next
// published value; the waiter is armed by the time Await returns, so a
// Publish that happens after Await can never be missed.
type Signal struct {
	mu        sync.Mutex // protects listeners and waiters
	listeners []*Subscription
	waiters   []chan any
}

// Subscription is a registered listener. Dropping it without calling
// Unsubscribe keeps the listener registered.
type Subscription struct {
	sig *Signal
	fn  func(any)
}

// New creates an empty signal with no listeners.
func New() *Signal {
	return &Signal{}
}

// Subscribe registers fn and returns a handle that can remove it again.
// fn must not be nil; callers validate before subscribing.
func (s *Signal) Subscribe(fn func(any)) *Subscription {
	sub := &Subscription{sig: s, fn: fn}
	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()
	return sub
}

// Unsubscribe removes the listener. Safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	s := sub.sig
	s.mu.Lock()
	for i, l := range s.listeners {
		if l == sub {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}

// Await arms a one-shot waiter and returns the channel it resolves on.
// The channel has capacity one, so the releasing Publish never blocks on
// a waiter that has not started receiving yet.
func (s *Signal) Await() <-chan any {
	ch := make(chan any, 1)
	s.mu.Lock()
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()
	return ch
}

// Publish releases every armed waiter and then invokes every listener in
// registration order, all on the caller's goroutine. The listener set is
// snapshotted first so callbacks may subscribe or unsubscribe freely.
func (s *Signal) Publish(v any) {
	s.mu.Lock()
	waiters := s.waiters
	s.waiters = nil
	listeners := append([]*Subscription(nil), s.listeners...)
	s.mu.Unlock()

	for _, ch := range waiters {
		ch <- v
	}
	for _, sub := range listeners {
		sub.fn(v)
	}
}
