package teleop

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/robot-teleop/router/pkg/config"
)

// Envelope is one inbound remote message carrying a command payload and
// sender metadata. It is immutable once received and discarded after
// classification.
type Envelope struct {
	RawPayload string
	SenderID   string
	ReceivedAt time.Time
}

// CommandKind tags the classified form of an envelope
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandDiscreteMotion
	CommandJointJog
	CommandStop
)

// String returns the kind name used in logs and dispatch stats
func (k CommandKind) String() string {
	switch k {
	case CommandDiscreteMotion:
		return "discrete_motion"
	case CommandJointJog:
		return "joint_jog"
	case CommandStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Command is the typed, safe-to-dispatch form of an envelope payload.
// JointJog commands carry the binding resolved from the keymap, so the
// joint index is trusted by the time it reaches the router.
type Command struct {
	Kind   CommandKind
	Motion string  // discrete motion word, set for CommandDiscreteMotion
	Key    string  // normalized key, set for CommandJointJog and CommandStop
	Joint  int     // keymap binding, set for CommandJointJog
	Sign   int     // +1 or -1, set for CommandJointJog
	Ts     float64 // sender timestamp, informational only
	Raw    string  // original payload, always set
}

// envelopePayload mirrors the two inbound JSON shapes:
// {"cmd":"forward","ts":N} and {"key":"w","ts":N}
type envelopePayload struct {
	Cmd string  `json:"cmd"`
	Key string  `json:"key"`
	Ts  float64 `json:"ts"`
}

// Classifier turns opaque message bodies into typed commands. It is total:
// malformed or unrecognized input always yields CommandUnknown, never an
// error, so the router can treat every envelope uniformly regardless of
// sender trust.
type Classifier struct {
	allowed  map[string]bool
	stopKeys map[string]bool
	keymap   map[string]config.JogBinding
}

// NewClassifier builds a classifier from the configured allow-list,
// stop keys and key-to-joint table.
func NewClassifier(cfg config.TeleopConfig) *Classifier {
	c := &Classifier{
		allowed:  make(map[string]bool, len(cfg.AllowedCommands)),
		stopKeys: make(map[string]bool, len(cfg.StopKeys)),
		keymap:   make(map[string]config.JogBinding, len(cfg.Keymap)),
	}
	for _, cmd := range cfg.AllowedCommands {
		c.allowed[cmd] = true
	}
	for _, key := range cfg.StopKeys {
		c.stopKeys[strings.ToLower(key)] = true
	}
	for key, binding := range cfg.Keymap {
		c.keymap[strings.ToLower(key)] = binding
	}
	return c
}

// Classify parses raw into a Command. Precedence: discrete motion word,
// then jog key, then stop key, then unknown.
func (c *Classifier) Classify(raw string) Command {
	cmd := Command{Kind: CommandUnknown, Raw: raw}

	var p envelopePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return cmd
	}
	cmd.Ts = p.Ts

	if p.Cmd != "" && c.allowed[p.Cmd] {
		cmd.Kind = CommandDiscreteMotion
		cmd.Motion = p.Cmd
		return cmd
	}

	if p.Key != "" {
		// Lower-case before matching; trim only for the keymap lookup so
		// the space stop key still matches.
		key := strings.ToLower(p.Key)
		trimmed := strings.TrimSpace(key)

		if binding, ok := c.keymap[trimmed]; ok && trimmed != "" {
			cmd.Kind = CommandJointJog
			cmd.Key = trimmed
			cmd.Joint = binding.Joint
			cmd.Sign = binding.Sign
			return cmd
		}

		if c.stopKeys[key] {
			cmd.Kind = CommandStop
			cmd.Key = key
			return cmd
		}
	}

	return cmd
}
