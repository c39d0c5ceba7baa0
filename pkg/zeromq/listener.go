package zeromq

import (
	"fmt"
	"time"

	"github.com/pebbe/zmq4"

	"github.com/robot-teleop/router/domain/teleop"
	"github.com/robot-teleop/router/pkg/dispatch"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// EnvelopeListener subscribes to teleop envelopes published by a gateway
// and feeds them into the dispatch queue. Deployments that ingest only
// over WebSocket/HTTP simply never start one.
type EnvelopeListener struct {
	socket  *zmq4.Socket
	queue   *dispatch.Queue
	logger  customlog.Logger
	running bool
}

// NewEnvelopeListener creates a SUB socket subscribed to topic.
func NewEnvelopeListener(topic string, queue *dispatch.Queue, logger customlog.Logger) (*EnvelopeListener, error) {
	socket, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}

	if err := socket.SetSubscribe(topic); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	return &EnvelopeListener{
		socket: socket,
		queue:  queue,
		logger: logger,
	}, nil
}

// Start connects to the gateway's publish address and begins receiving.
func (l *EnvelopeListener) Start(connectAddress string) error {
	if err := l.socket.Connect(connectAddress); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", connectAddress, err)
	}

	l.running = true
	go l.receiveLoop()

	l.logger.Infof("Envelope listener started on %s", connectAddress)
	return nil
}

// Stop stops the listener. Closing the socket interrupts the blocking
// receive.
func (l *EnvelopeListener) Stop() {
	l.running = false
	l.socket.Close()
}

// receiveLoop continuously receives topic-framed envelopes and enqueues
// them for dispatch.
func (l *EnvelopeListener) receiveLoop() {
	for l.running {
		parts, err := l.socket.RecvMessage(0)
		if err != nil {
			if l.running {
				l.logger.Errorf("Error receiving envelope: %v", err)
				time.Sleep(100 * time.Millisecond)
			}
			continue
		}

		if len(parts) < 2 {
			l.logger.Warnf("Ignoring envelope without payload frame (%d parts)", len(parts))
			continue
		}

		// parts[0] is the topic frame; the payload is the raw command JSON
		env := teleop.Envelope{
			RawPayload: parts[len(parts)-1],
			SenderID:   "zmq:" + parts[0],
			ReceivedAt: time.Now(),
		}
		l.queue.Enqueue(env)
	}
}
