// FILE: src/internal/worker/worker.go
package worker

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tracehook/src/internal/core"

	"github.com/lixenwraith/log"
)

// MaxAttempts is the delivery ceiling per payload, including the first try
const MaxAttempts = 10

// initialRetryDelay is the backoff before the first retry; it doubles
// before every subsequent retry and is not capped within the ceiling.
const initialRetryDelay = 100 * time.Millisecond

// ErrAlreadyStarted is returned by Start on a running or stopped worker
var ErrAlreadyStarted = fmt.Errorf("worker already started")

// ErrNotRunning is returned by Shutdown when there is no running worker.
// It reports a lifecycle misuse; callers may log it and continue.
var ErrNotRunning = fmt.Errorf("worker is not running")

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// BackgroundWorker is the sole consumer of the delivery queue. It owns all
// outbound HTTP: payloads are POSTed with retry and exponential backoff,
// and nothing from the delivery path ever propagates back to the event
// source. Start it once at startup, shut it down once at teardown.
type BackgroundWorker struct {
	// Application
	queue     *Queue
	transport Transport
	logger    *log.Logger

	// Runtime
	mu    sync.Mutex
	state state
	wg    sync.WaitGroup
	sleep func(time.Duration)

	// Statistics
	totalDelivered atomic.Uint64
	totalAbandoned atomic.Uint64
	totalAttempts  atomic.Uint64
	startTime      time.Time
}

// New creates a worker consuming the given queue
func New(queue *Queue, transport Transport, logger *log.Logger) *BackgroundWorker {
	return &BackgroundWorker{
		queue:     queue,
		transport: transport,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// Queue returns the worker's queue. The application may push a shutdown
// message on it directly to trigger shutdown out-of-band.
func (w *BackgroundWorker) Queue() *Queue {
	return w.queue
}

// Start spawns the consume loop. Calling Start more than once is a checked
// precondition violation and returns ErrAlreadyStarted instead of racing on
// the queue.
func (w *BackgroundWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateIdle {
		return ErrAlreadyStarted
	}
	w.state = stateRunning
	w.startTime = time.Now()

	w.wg.Add(1)
	go w.run()

	w.logger.Info("msg", "Delivery worker started",
		"component", "worker",
		"max_attempts", MaxAttempts)
	return nil
}

// Shutdown sends the in-band shutdown message and waits for the consume
// loop to exit. Messages queued behind the shutdown message are dropped.
// A second Shutdown is a reported no-op returning ErrNotRunning.
func (w *BackgroundWorker) Shutdown() error {
	w.mu.Lock()
	if w.state != stateRunning {
		w.mu.Unlock()
		w.logger.Warn("msg", "Shutdown called but worker is not running",
			"component", "worker")
		return ErrNotRunning
	}
	w.state = stateStopped
	w.mu.Unlock()

	if !w.queue.Push(Message{Shutdown: true}) {
		// Queue already closed; the loop has exited or is exiting
		w.logger.Debug("msg", "Shutdown message not sent - queue closed",
			"component", "worker")
	}
	w.wg.Wait()
	w.queue.Close()

	w.logger.Info("msg", "Delivery worker stopped",
		"component", "worker",
		"total_delivered", w.totalDelivered.Load(),
		"total_abandoned", w.totalAbandoned.Load())
	return nil
}

// GetStats returns worker statistics
func (w *BackgroundWorker) GetStats() map[string]any {
	w.mu.Lock()
	running := w.state == stateRunning
	w.mu.Unlock()

	return map[string]any{
		"running":         running,
		"queued":          w.queue.Len(),
		"total_delivered": w.totalDelivered.Load(),
		"total_abandoned": w.totalAbandoned.Load(),
		"total_attempts":  w.totalAttempts.Load(),
		"start_time":      w.startTime,
	}
}

// run consumes messages in arrival order until a shutdown message or queue
// closure.
func (w *BackgroundWorker) run() {
	defer w.wg.Done()

	for {
		msg, ok := w.queue.Pop()
		if !ok {
			return
		}
		if msg.Shutdown {
			w.logger.Debug("msg", "Shutdown message received",
				"component", "worker")
			return
		}
		w.deliver(msg.Payload)
	}
}

// deliver POSTs one payload, retrying with exponential backoff. After the
// final failed attempt the payload is abandoned; delivery is at-most-once.
func (w *BackgroundWorker) deliver(payload core.Payload) {
	var lastErr error
	delay := initialRetryDelay

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		w.totalAttempts.Add(1)

		err := w.transport.Post(payload.Destination(), payload.Body())
		if err == nil {
			w.totalDelivered.Add(1)
			w.logger.Debug("msg", "Payload delivered",
				"component", "worker",
				"attempt", attempt)
			return
		}
		lastErr = err

		w.logger.Warn("msg", "Webhook delivery failed",
			"component", "worker",
			"attempt", attempt,
			"max_attempts", MaxAttempts,
			"error", err)

		if attempt < MaxAttempts {
			w.sleep(delay)
			delay *= 2
		}
	}

	w.totalAbandoned.Add(1)
	w.logger.Error("msg", "Abandoning payload after all attempts",
		"component", "worker",
		"attempts", MaxAttempts,
		"last_error", lastErr)
}
