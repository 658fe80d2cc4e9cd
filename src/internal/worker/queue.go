// FILE: src/internal/worker/queue.go
package worker

import (
	"sync"

	"tracehook/src/internal/core"
)

// Message is the unit of transport between the layer and the worker
type Message struct {
	Payload  core.Payload
	Shutdown bool
}

// Queue is an unbounded multi-producer single-consumer FIFO. Push never
// blocks the producer; under sustained overload memory grows without bound.
// This is a deliberate tradeoff: the instrumented hot path is never stalled
// by delivery, and there is no backpressure.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Message
	closed bool
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a message. Returns false if the queue has been closed; the
// message is discarded in that case.
func (q *Queue) Push(m Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, m)
	q.cond.Signal()
	return true
}

// Pop removes and returns the oldest message, blocking until one is
// available. Returns false once the queue is closed and drained.
func (q *Queue) Pop() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Message{}, false
	}

	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

// Close rejects further pushes and wakes a blocked consumer. Messages still
// queued are dropped unread.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.items = nil
	q.cond.Broadcast()
}

// Len returns the number of queued messages
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
