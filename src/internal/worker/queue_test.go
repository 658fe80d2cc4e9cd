// FILE: src/internal/worker/queue_test.go
package worker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for _, body := range []string{"a", "b", "c"} {
		require.True(t, q.Push(Message{Payload: &fakePayload{body: body}}))
	}

	for _, expected := range []string{"a", "b", "c"} {
		m, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, expected, string(m.Payload.Body()))
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue()

	done := make(chan string)
	go func() {
		m, ok := q.Pop()
		require.True(t, ok)
		done <- string(m.Payload.Body())
	}()

	q.Push(Message{Payload: &fakePayload{body: "late"}})
	assert.Equal(t, "late", <-done)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Message{Payload: &fakePayload{body: "m"}})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())
	for i := 0; i < producers*perProducer; i++ {
		_, ok := q.Pop()
		require.True(t, ok)
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue()
	q.Push(Message{Payload: &fakePayload{body: "dropped"}})
	q.Close()

	// Pushes after close are rejected
	assert.False(t, q.Push(Message{Payload: &fakePayload{body: "late"}}))

	// Queued messages are dropped, Pop reports closure
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestQueue_CloseWakesBlockedConsumer(t *testing.T) {
	q := NewQueue()

	done := make(chan bool)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	q.Close()
	assert.False(t, <-done)
}
