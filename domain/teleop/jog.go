package teleop

import (
	"fmt"
	"sync"

	"github.com/robot-teleop/router/pkg/config"
)

// JogState holds the current per-joint targets for the arm. Its length is
// fixed at construction; positions are unbounded unless joint limits are
// enforced by configuration. Mutation happens only on the dispatch path,
// one command at a time; the lock exists so diagnostics can snapshot the
// vector from other goroutines.
type JogState struct {
	names     []string
	positions []float64
	step      float64
	clamp     bool
	limits    []config.JointLimit
	mu        sync.RWMutex
}

// NewJogState creates a jog accumulator with all targets at zero.
func NewJogState(cfg config.JogConfig) *JogState {
	return &JogState{
		names:     append([]string(nil), cfg.JointNames...),
		positions: make([]float64, len(cfg.JointNames)),
		step:      cfg.StepRadians(),
		clamp:     cfg.EnforceJointLimits,
		limits:    append([]config.JointLimit(nil), cfg.JointLimits...),
	}
}

// ApplyDelta adds sign*step to the joint's target. An out-of-range joint
// index is a programming-contract violation (the validated keymap is the
// only producer of indices) and panics rather than being ignored.
func (s *JogState) ApplyDelta(joint, sign int) {
	if joint < 0 || joint >= len(s.positions) {
		panic(fmt.Sprintf("jog: joint index %d out of range [0,%d)", joint, len(s.positions)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions[joint] += float64(sign) * s.step

	if s.clamp {
		limit := s.limits[joint]
		if s.positions[joint] < limit.Min {
			s.positions[joint] = limit.Min
		}
		if s.positions[joint] > limit.Max {
			s.positions[joint] = limit.Max
		}
	}
}

// Snapshot returns a copy of all joint targets in joint order.
func (s *JogState) Snapshot() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.positions...)
}

// Names returns the joint names in joint order.
func (s *JogState) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of joints.
func (s *JogState) Len() int {
	return len(s.positions)
}

// Reset sets every target back to zero.
func (s *JogState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.positions {
		s.positions[i] = 0
	}
}

// Step returns the per-keypress step in radians.
func (s *JogState) Step() float64 {
	return s.step
}
