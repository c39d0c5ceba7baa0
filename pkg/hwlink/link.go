// Package hwlink owns the serial connection to the drive microcontroller.
// It provides device discovery, a capped probe-then-connect sequence and a
// best-effort line writer. It never reconnects on its own: a failed write
// marks the session unconnected and reconnection is the caller's decision.
package hwlink

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"

	"github.com/robot-teleop/router/pkg/config"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// Common errors
var (
	ErrNoDeviceFound       = errors.New("no serial device found")
	ErrNotConnected        = errors.New("serial link not connected")
	ErrWriteFailed         = errors.New("serial write failed")
	ErrReconnectInProgress = errors.New("serial link reconnect already in progress")
)

// Port is the minimal surface the link needs from an open serial device.
// go.bug.st/serial's Port satisfies it; tests substitute fakes.
type Port interface {
	io.ReadWriteCloser
}

// Opener opens a candidate device path. The returned port must already
// have a bounded read timeout applied so reply reads cannot block.
type Opener func(path string) (Port, error)

// Status is a snapshot of the link session for diagnostics
type Status struct {
	Port      string `json:"port"`
	Connected bool   `json:"connected"`
	BaudRate  int    `json:"baud_rate"`
}

// Link is the hardware link session. At most one exists per process and it
// is exclusively owned by the command router.
type Link struct {
	cfg    config.SerialConfig
	logger customlog.Logger

	opener      Opener
	candidates  func() []string
	settleDelay time.Duration

	mu       sync.Mutex
	port     Port
	portName string

	// connecting guards against overlapping discovery runs; a rejected
	// caller must treat the link as not connected.
	connecting atomic.Bool
}

// New creates an unconnected link over the host's real serial devices.
func New(cfg config.SerialConfig, logger customlog.Logger) *Link {
	l := &Link{
		cfg:         cfg,
		logger:      logger,
		settleDelay: time.Duration(cfg.SettleDelayMs) * time.Millisecond,
	}
	l.opener = l.openSerialPort
	l.candidates = l.globCandidates
	return l
}

// openSerialPort opens path at the configured baud rate with a bounded
// read timeout.
func (l *Link) openSerialPort(path string) (Port, error) {
	mode := &serial.Mode{BaudRate: l.cfg.BaudRate}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	readWindow := time.Duration(l.cfg.ReadWindowMs) * time.Millisecond
	if err := port.SetReadTimeout(readWindow); err != nil {
		port.Close()
		return nil, err
	}
	return port, nil
}

// globCandidates lists plausible device nodes in host enumeration order.
func (l *Link) globCandidates() []string {
	var candidates []string
	for _, pattern := range l.cfg.CandidateGlobs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			l.logger.Warnf("Invalid candidate glob '%s': %v", pattern, err)
			continue
		}
		candidates = append(candidates, matches...)
	}
	return candidates
}

// DiscoverCandidates returns the device paths that would be probed by the
// next Connect call. The result may be empty.
func (l *Link) DiscoverCandidates() []string {
	return l.candidates()
}

// probe opens a candidate, waits the settle window for the board to finish
// its boot reset, writes the probe token and drains any reply. A missing
// reply is not a failure; only an open or write error disqualifies the
// candidate.
func (l *Link) probe(candidate string) bool {
	l.logger.Infof("Probing serial candidate %s", candidate)

	port, err := l.opener(candidate)
	if err != nil {
		l.logger.Warnf("Candidate %s failed to open: %v", candidate, err)
		return false
	}
	defer port.Close()

	time.Sleep(l.settleDelay)

	if _, err := port.Write([]byte(l.cfg.ProbeToken + "\n")); err != nil {
		l.logger.Warnf("Candidate %s failed probe write: %v", candidate, err)
		return false
	}

	// Best-effort reply check, bounded by the port's read timeout
	buf := make([]byte, 64)
	if n, err := port.Read(buf); err == nil && n > 0 {
		l.logger.Debugf("Candidate %s replied: %s", candidate, strings.TrimSpace(string(buf[:n])))
	}

	l.logger.Infof("Candidate %s looks valid", candidate)
	return true
}

// Connect runs discovery and opens a session on the first candidate that
// probes successfully. It returns ErrNoDeviceFound when discovery yields
// nothing usable and ErrReconnectInProgress when another Connect is still
// running.
func (l *Link) Connect() error {
	if !l.connecting.CompareAndSwap(false, true) {
		return ErrReconnectInProgress
	}
	defer l.connecting.Store(false)

	candidates := l.candidates()
	l.logger.Infof("Scanning serial ports, candidates: %v", candidates)

	for _, candidate := range candidates {
		if !l.probe(candidate) {
			continue
		}

		// The probe closed its handle; reopen the winner as the session.
		port, err := l.opener(candidate)
		if err != nil {
			l.logger.Warnf("Failed to reopen %s after probe: %v", candidate, err)
			continue
		}
		time.Sleep(l.settleDelay)

		l.mu.Lock()
		if l.port != nil {
			l.port.Close()
		}
		l.port = port
		l.portName = candidate
		l.mu.Unlock()

		l.logger.Infof("Serial link connected on %s @ %d", candidate, l.cfg.BaudRate)
		return nil
	}

	l.logger.Warnf("No valid serial device found")
	return ErrNoDeviceFound
}

// SendLine appends a line terminator to cmd and writes it to the active
// session. A write failure closes the session and surfaces as
// ErrWriteFailed; the link stays unconnected until the caller reconnects.
func (l *Link) SendLine(cmd string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.port == nil {
		return ErrNotConnected
	}

	if _, err := l.port.Write([]byte(cmd + "\n")); err != nil {
		l.logger.Errorf("Serial write on %s failed: %v", l.portName, err)
		l.port.Close()
		l.port = nil
		l.portName = ""
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	l.logger.Debugf("Serial sent: %s", cmd)

	// Light reply check; the read is bounded by the port's read timeout
	// and absence of a reply is fine.
	buf := make([]byte, 64)
	if n, err := l.port.Read(buf); err == nil && n > 0 {
		l.logger.Infof("Serial reply: %s", strings.TrimSpace(string(buf[:n])))
	}

	return nil
}

// Connected reports whether a session is active
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port != nil
}

// GetStatus returns a snapshot of the session for diagnostics
func (l *Link) GetStatus() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		Port:      l.portName,
		Connected: l.port != nil,
		BaudRate:  l.cfg.BaudRate,
	}
}

// Close releases the session if one is active
func (l *Link) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port != nil {
		l.logger.Infof("Closing serial link on %s", l.portName)
		l.port.Close()
		l.port = nil
		l.portName = ""
	}
}
