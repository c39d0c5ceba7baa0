// Package dispatch provides the message-passing boundary between the
// remote transports and the command router: a bounded queue drained by a
// single worker, so no command's dispatch is ever interleaved with
// another's.
package dispatch

import (
	"sync"
	"time"

	"github.com/robot-teleop/router/domain/teleop"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// EnvelopeHandler processes one envelope to completion.
type EnvelopeHandler func(env teleop.Envelope)

// QueueMetrics tracks counters for the dispatch queue
type QueueMetrics struct {
	ProcessedCount    int64
	DroppedCount      int64
	QueuedCount       int64
	LastProcessedTime int64
	mu                sync.Mutex
}

// Queue serializes envelope dispatch. Transports enqueue without
// blocking; a full queue drops the envelope, since buffering stale teleop
// input behind a slow link is worse than losing it.
type Queue struct {
	logger  customlog.Logger
	queue   chan teleop.Envelope
	handler EnvelopeHandler
	running bool
	wg      sync.WaitGroup
	mu      sync.Mutex
	metrics *QueueMetrics
}

// NewQueue creates a dispatch queue with the given buffer size.
func NewQueue(queueSize int, handler EnvelopeHandler, logger customlog.Logger) *Queue {
	return &Queue{
		logger:  logger,
		queue:   make(chan teleop.Envelope, queueSize),
		handler: handler,
		metrics: &QueueMetrics{mu: sync.Mutex{}},
	}
}

// Enqueue adds an envelope for dispatch. It never blocks; false means the
// envelope was dropped because the queue is stopped or full.
func (q *Queue) Enqueue(env teleop.Envelope) bool {
	q.mu.Lock()
	running := q.running
	q.mu.Unlock()

	if !running {
		q.logger.Warnf("Dispatch queue not running, discarding envelope from %s", env.SenderID)
		return false
	}

	select {
	case q.queue <- env:
		q.metrics.mu.Lock()
		q.metrics.QueuedCount++
		q.metrics.mu.Unlock()
		return true
	default:
		q.metrics.mu.Lock()
		q.metrics.DroppedCount++
		q.metrics.mu.Unlock()
		q.logger.Warnf("Dispatch queue full, discarding envelope from %s", env.SenderID)
		return false
	}
}

// Start launches the single dispatch worker.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}

	q.running = true
	q.logger.Infof("Starting dispatch queue (buffer %d)", cap(q.queue))

	q.wg.Add(1)
	go q.worker()
}

// Stop drains the queue and waits for the worker to finish.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.mu.Unlock()

	close(q.queue)

	q.logger.Infof("Stopping dispatch queue")
	q.wg.Wait()
	q.logger.Infof("Dispatch queue stopped")
}

// worker processes envelopes strictly in arrival order.
func (q *Queue) worker() {
	defer q.wg.Done()

	for env := range q.queue {
		q.handler(env)

		q.metrics.mu.Lock()
		q.metrics.ProcessedCount++
		q.metrics.LastProcessedTime = time.Now().UnixNano()
		q.metrics.mu.Unlock()
	}
}

// GetMetrics returns a copy of the current metrics.
func (q *Queue) GetMetrics() QueueMetrics {
	q.metrics.mu.Lock()
	defer q.metrics.mu.Unlock()

	return QueueMetrics{
		ProcessedCount:    q.metrics.ProcessedCount,
		DroppedCount:      q.metrics.DroppedCount,
		QueuedCount:       q.metrics.QueuedCount,
		LastProcessedTime: q.metrics.LastProcessedTime,
	}
}

// Depth returns the number of envelopes currently buffered.
func (q *Queue) Depth() int {
	return len(q.queue)
}
