package main

import (
	"fmt"
	"time"

	"handq/internal/handoff"
	"handq/internal/job"
)

func main() {
	// Read the configuration
	cfg := handoff.Load("config.yml")
	fmt.Printf("Loaded config: %+v\n", cfg)

	q := handoff.New(cfg)
	defer q.Close()

	done := make(chan struct{})
	sub, err := q.OnEmpty(func() { close(done) })
	if err != nil {
		fmt.Println("subscribe failed:", err)
		return
	}
	defer sub.Unsubscribe()

	if err := q.Bind(job.SleepyConsumer(q, 100*time.Millisecond)); err != nil {
		fmt.Println("bind failed:", err)
		return
	}

	if err := q.Add("resize-image", "send-email", "purge-cache"); err != nil {
		fmt.Println("enqueue failed:", err)
		return
	}

	<-done
	fmt.Println("all tasks drained")
}
