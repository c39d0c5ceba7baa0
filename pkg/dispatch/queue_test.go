package dispatch

import (
	"testing"
	"time"

	"github.com/robot-teleop/router/domain/teleop"
)

// testLogger discards all output
type testLogger struct{}

func (testLogger) Debugf(format string, args ...interface{}) {}
func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Warnf(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}
func (testLogger) Fatalf(format string, args ...interface{}) {}

func testEnvelope(raw string) teleop.Envelope {
	return teleop.Envelope{RawPayload: raw, SenderID: "test", ReceivedAt: time.Now()}
}

func TestQueueProcessesInArrivalOrder(t *testing.T) {
	var processed []string
	q := NewQueue(10, func(env teleop.Envelope) {
		processed = append(processed, env.RawPayload)
	}, testLogger{})
	q.Start()

	for _, raw := range []string{"one", "two", "three"} {
		if !q.Enqueue(testEnvelope(raw)) {
			t.Fatalf("Enqueue of %q failed unexpectedly", raw)
		}
	}

	// Stop drains the queue and waits for the worker
	q.Stop()

	if len(processed) != 3 {
		t.Fatalf("Expected 3 processed envelopes, got %d", len(processed))
	}
	for i, want := range []string{"one", "two", "three"} {
		if processed[i] != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, processed[i])
		}
	}

	metrics := q.GetMetrics()
	if metrics.ProcessedCount != 3 {
		t.Errorf("Expected ProcessedCount 3, got %d", metrics.ProcessedCount)
	}
	if metrics.DroppedCount != 0 {
		t.Errorf("Expected DroppedCount 0, got %d", metrics.DroppedCount)
	}
}

func TestEnqueueBeforeStartIsRejected(t *testing.T) {
	q := NewQueue(10, func(env teleop.Envelope) {}, testLogger{})

	if q.Enqueue(testEnvelope("early")) {
		t.Errorf("Enqueue must fail while the queue is not running")
	}
}

func TestFullQueueDropsInsteadOfBlocking(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue(1, func(env teleop.Envelope) {
		<-block
	}, testLogger{})
	q.Start()

	// First envelope is taken by the worker, which then blocks in the
	// handler; wait for the buffer slot to free up.
	if !q.Enqueue(testEnvelope("in-flight")) {
		t.Fatalf("First enqueue failed")
	}
	deadline := time.Now().Add(2 * time.Second)
	for q.Depth() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Worker never picked up the first envelope")
		}
		time.Sleep(time.Millisecond)
	}

	// Second fills the buffer, third must drop
	if !q.Enqueue(testEnvelope("buffered")) {
		t.Fatalf("Second enqueue failed")
	}
	if q.Enqueue(testEnvelope("overflow")) {
		t.Errorf("Expected enqueue to drop when the buffer is full")
	}

	metrics := q.GetMetrics()
	if metrics.DroppedCount != 1 {
		t.Errorf("Expected DroppedCount 1, got %d", metrics.DroppedCount)
	}

	close(block)
	q.Stop()
}

func TestCommandStatsCounts(t *testing.T) {
	stats := NewCommandStats(testLogger{})

	stats.RecordDispatch("joint_jog", 100)
	stats.RecordDispatch("joint_jog", 200)
	stats.RecordDispatch("unknown", 300)

	info, found := stats.GetInfo("joint_jog")
	if !found {
		t.Fatalf("Expected joint_jog stats to exist")
	}
	if info.Count != 2 {
		t.Errorf("Expected count 2, got %d", info.Count)
	}
	if info.LastReceived != 200 {
		t.Errorf("Expected last_received 200, got %d", info.LastReceived)
	}

	all := stats.GetStats()
	if len(all) != 2 {
		t.Errorf("Expected stats for 2 kinds, got %d", len(all))
	}

	if _, found := stats.GetInfo("stop"); found {
		t.Errorf("Expected no stats for unrecorded kind")
	}
}
