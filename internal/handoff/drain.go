// internal/handoff/drain.go

package handoff

import (
	"context"
	"log/slog"
)

// drain is the queue's single background loop. It repeatedly selects the
// next candidate under the current policy, applies the filter, delivers
// the task, blocks until acknowledged, removes it, and starts over. It
// exits when the queue runs empty, when the consumer is unbound, or when
// ctx is cancelled by Close.
func (q *Queue) drain(ctx context.Context) {
	for {
		q.mu.Lock()

		// Close cancels abruptly; state was already torn down there.
		if ctx.Err() != nil {
			q.mu.Unlock()
			return
		}

		// Unbind is observed only here, so a task delivered before the
		// unbind still completes its acknowledgment round first.
		if q.consumer == nil {
			q.exitLocked()
			q.mu.Unlock()
			return
		}

		idx := selectIndex(q.pending.Size(), q.policy)
		if idx < 0 {
			q.exitLocked()
			q.mu.Unlock()
			// NOTE: publish after unlocking so listeners may call back
			// into the queue without deadlocking.
			q.empty.Publish(nil)
			return
		}

		candidate, _ := q.pending.Get(idx)
		filter := q.filter
		q.mu.Unlock()

		// Lazy filter check: rejected tasks are purged without delivery,
		// acknowledgment, or notification.
		if filter != nil && !q.keep(filter, candidate) {
			q.mu.Lock()
			q.pending.Remove(idx)
			q.mu.Unlock()
			continue
		}

		// Arm the acknowledgment waiter and re-confirm the binding under
		// the same lock. Arming before the delivery is published means a
		// consumer that acknowledges from inside its own callback cannot
		// miss the window; re-checking the binding here means an Unbind
		// landing after the SELECT check either exits the loop now or,
		// once armed, releases the gate itself and wakes us.
		q.mu.Lock()
		if q.consumer == nil {
			q.exitLocked()
			q.mu.Unlock()
			return
		}
		acked := q.ack.Await()
		q.mu.Unlock()

		q.deliver.Publish(candidate)

		select {
		case <-acked:
		case <-ctx.Done():
			return
		}

		q.mu.Lock()
		// Only appends can have happened since selection, so idx still
		// addresses the delivered task.
		if idx < q.pending.Size() {
			q.pending.Remove(idx)
		}
		q.mu.Unlock()
	}
}

// exitLocked resets the queue to idle so the next Add can spawn a fresh
// loop. Callers hold q.mu.
func (q *Queue) exitLocked() {
	q.pending.Clear()
	q.active = false
	if q.drainCancel != nil {
		q.drainCancel()
		q.drainCancel = nil
	}
}

// keep runs the filter with panic isolation; a panicking predicate drops
// the candidate rather than wedging the loop.
func (q *Queue) keep(filter Filter, t Task) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Warn("filter panicked, dropping task", slog.Any("panic", r))
			ok = false
		}
	}()
	return filter(t)
}
