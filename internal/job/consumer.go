package job

import (
	"fmt"
	"time"

	"handq/internal/handoff"
)

// SleepyConsumer returns a consumer that pretends to work on each task for
// the given duration before acknowledging it on q. Handy for demoing the
// backpressure behavior: the queue delivers nothing until the ack lands.
func SleepyConsumer(q *handoff.Queue, workFor time.Duration) handoff.Consumer {
	return func(t handoff.Task) {
		fmt.Printf("processing %v\n", t)
		time.Sleep(workFor)
		q.Acknowledge()
	}
}
