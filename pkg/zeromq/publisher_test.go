package zeromq

import (
	"math"
	"testing"

	"github.com/robot-teleop/router/pkg/fb/trajectory"
)

func TestEncodeJointTrajectory(t *testing.T) {
	names := []string{"joint1", "joint2", "joint3"}
	positions := []float64{0.0524, -0.1048, 0.0}

	payload := EncodeJointTrajectory(names, positions, 0.4, 1234567890)

	msg := trajectory.GetRootAsJointTrajectory(payload, 0)

	if got := msg.JointNamesLength(); got != len(names) {
		t.Fatalf("Expected %d joint names, got %d", len(names), got)
	}
	for i, name := range names {
		if got := string(msg.JointNames(i)); got != name {
			t.Errorf("Joint name %d: expected %q, got %q", i, name, got)
		}
	}

	if got := msg.PositionsLength(); got != len(positions) {
		t.Fatalf("Expected %d positions, got %d", len(positions), got)
	}
	for i, pos := range positions {
		if got := msg.Positions(i); math.Abs(got-pos) > 1e-12 {
			t.Errorf("Position %d: expected %v, got %v", i, pos, got)
		}
	}

	if got := msg.TimeFromStart(); got != 0.4 {
		t.Errorf("Expected time_from_start 0.4, got %v", got)
	}
	if got := msg.TimestampNs(); got != 1234567890 {
		t.Errorf("Expected timestamp_ns 1234567890, got %d", got)
	}
}

func TestEncodeJointTrajectoryEmptySnapshot(t *testing.T) {
	payload := EncodeJointTrajectory(nil, nil, 0.4, 0)

	msg := trajectory.GetRootAsJointTrajectory(payload, 0)
	if msg.JointNamesLength() != 0 || msg.PositionsLength() != 0 {
		t.Errorf("Expected empty vectors, got %d names and %d positions",
			msg.JointNamesLength(), msg.PositionsLength())
	}
}
