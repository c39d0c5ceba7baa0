package dispatch

import (
	"sync"

	customlog "github.com/robot-teleop/router/pkg/log"
)

// CommandInfo holds dispatch counters for one command kind
type CommandInfo struct {
	Kind         string
	Count        int64
	LastReceived int64
}

// CommandStats maintains per-kind dispatch counters for the diagnostics
// API. It implements teleop.DispatchRecorder.
type CommandStats struct {
	logger   customlog.Logger
	commands map[string]*CommandInfo
	mu       sync.RWMutex
}

// NewCommandStats creates an empty stats registry
func NewCommandStats(logger customlog.Logger) *CommandStats {
	return &CommandStats{
		logger:   logger,
		commands: make(map[string]*CommandInfo),
		mu:       sync.RWMutex{},
	}
}

// RecordDispatch counts one dispatched command of the given kind
func (s *CommandStats) RecordDispatch(kind string, timestampNs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.commands[kind]
	if !exists {
		info = &CommandInfo{Kind: kind}
		s.commands[kind] = info
	}

	info.Count++
	info.LastReceived = timestampNs
}

// GetInfo returns a copy of the counters for one command kind
func (s *CommandStats) GetInfo(kind string) (CommandInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.commands[kind]
	if !exists {
		return CommandInfo{}, false
	}
	return *info, true
}

// GetStats returns a map of dispatch statistics per command kind
func (s *CommandStats) GetStats() map[string]map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]map[string]interface{})
	for kind, info := range s.commands {
		stats[kind] = map[string]interface{}{
			"count":         info.Count,
			"last_received": info.LastReceived,
		}
	}
	return stats
}
