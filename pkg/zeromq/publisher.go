// Package zeromq carries the router's ZeroMQ transports: the trajectory
// publisher toward the robot motion bridge and an optional envelope
// listener for gateway-fronted deployments.
package zeromq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/pebbe/zmq4"

	"github.com/robot-teleop/router/pkg/fb/trajectory"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// Common errors
var (
	ErrPublisherClosed = errors.New("trajectory publisher is closed")
)

// TrajectoryPublisher publishes full joint-trajectory snapshots over a
// PUB socket as topic-framed FlatBuffers messages. It implements
// teleop.MotionPublisher.
type TrajectoryPublisher struct {
	socket     *zmq4.Socket
	topic      string
	jointNames []string
	logger     customlog.Logger
	running    bool
	mu         sync.Mutex
}

// NewTrajectoryPublisher creates a PUB socket bound to bindAddress.
func NewTrajectoryPublisher(bindAddress, topic string, jointNames []string, logger customlog.Logger) (*TrajectoryPublisher, error) {
	socket, err := zmq4.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := socket.Bind(bindAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", bindAddress, err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	logger.Infof("Trajectory publisher initialized on %s (topic %s)", bindAddress, topic)

	return &TrajectoryPublisher{
		socket:     socket,
		topic:      topic,
		jointNames: jointNames,
		logger:     logger,
		running:    true,
		mu:         sync.Mutex{},
	}, nil
}

// Publish sends one trajectory point carrying all joint positions.
func (p *TrajectoryPublisher) Publish(positions []float64, timeFromStart float64) error {
	payload := EncodeJointTrajectory(p.jointNames, positions, timeFromStart, time.Now().UnixNano())

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrPublisherClosed
	}

	// Topic frame first, then the message
	if _, err := p.socket.Send(p.topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := p.socket.SendBytes(payload, 0); err != nil {
		return fmt.Errorf("failed to send trajectory: %w", err)
	}

	p.logger.Debugf("Published trajectory target (%d joints, tfs=%.2fs)", len(positions), timeFromStart)
	return nil
}

// Close cleans up resources
func (p *TrajectoryPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = false
	if p.socket != nil {
		p.socket.Close()
		p.socket = nil
	}
}

// EncodeJointTrajectory serializes one trajectory point as a FlatBuffers
// JointTrajectory message.
func EncodeJointTrajectory(jointNames []string, positions []float64, timeFromStart float64, timestampNs int64) []byte {
	builder := flatbuffers.NewBuilder(256)

	nameOffsets := make([]flatbuffers.UOffsetT, len(jointNames))
	for i, name := range jointNames {
		nameOffsets[i] = builder.CreateString(name)
	}

	trajectory.JointTrajectoryStartJointNamesVector(builder, len(nameOffsets))
	for i := len(nameOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(nameOffsets[i])
	}
	namesVec := builder.EndVector(len(nameOffsets))

	trajectory.JointTrajectoryStartPositionsVector(builder, len(positions))
	for i := len(positions) - 1; i >= 0; i-- {
		builder.PrependFloat64(positions[i])
	}
	positionsVec := builder.EndVector(len(positions))

	trajectory.JointTrajectoryStart(builder)
	trajectory.JointTrajectoryAddJointNames(builder, namesVec)
	trajectory.JointTrajectoryAddPositions(builder, positionsVec)
	trajectory.JointTrajectoryAddTimeFromStart(builder, timeFromStart)
	trajectory.JointTrajectoryAddTimestampNs(builder, timestampNs)
	builder.Finish(trajectory.JointTrajectoryEnd(builder))

	return builder.FinishedBytes()
}
