package config

import (
	"fmt"
	"io/ioutil"
	"math"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the command router configuration. All values of the
// reference deployment are expressed here as documented defaults; a config
// file only needs to override what differs.
type Config struct {
	Version string        `yaml:"version" json:"version"`
	RobotID string        `yaml:"robot_id" json:"robot_id"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Serial  SerialConfig  `yaml:"serial" json:"serial"`
	Teleop  TeleopConfig  `yaml:"teleop" json:"teleop"`
	Jog     JogConfig     `yaml:"jog" json:"jog"`
	ZeroMQ  ZeroMQConfig  `yaml:"zeromq" json:"zeromq"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogPath string `yaml:"log_path,omitempty" json:"log_path,omitempty"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPPort int `yaml:"http_port" json:"http_port"`
}

// SerialConfig holds the hardware link settings
type SerialConfig struct {
	BaudRate int `yaml:"baud_rate" json:"baud_rate"`
	// SettleDelayMs is the window granted to the microcontroller to finish
	// its boot reset after the port is opened.
	SettleDelayMs  int      `yaml:"settle_delay_ms" json:"settle_delay_ms"`
	ReadWindowMs   int      `yaml:"read_window_ms" json:"read_window_ms"`
	ProbeToken     string   `yaml:"probe_token" json:"probe_token"`
	CandidateGlobs []string `yaml:"candidate_globs" json:"candidate_globs"`
}

// TeleopConfig holds command classification settings
type TeleopConfig struct {
	Topic           string                `yaml:"topic" json:"topic"`
	AllowedCommands []string              `yaml:"allowed_commands" json:"allowed_commands"`
	StopKeys        []string              `yaml:"stop_keys" json:"stop_keys"`
	Keymap          map[string]JogBinding `yaml:"keymap" json:"keymap"`
}

// JogBinding maps a key to a joint index and jog direction
type JogBinding struct {
	Joint int `yaml:"joint" json:"joint"`
	Sign  int `yaml:"sign" json:"sign"`
}

// JogConfig holds the joint jog accumulator settings
type JogConfig struct {
	JointNames     []string `yaml:"joint_names" json:"joint_names"`
	StepDegrees    float64  `yaml:"step_degrees" json:"step_degrees"`
	TimeFromStartS float64  `yaml:"time_from_start_s" json:"time_from_start_s"`
	// EnforceJointLimits enables clamping of jog targets to JointLimits.
	// The reference deployment never clamps; off by default.
	EnforceJointLimits bool         `yaml:"enforce_joint_limits" json:"enforce_joint_limits"`
	JointLimits        []JointLimit `yaml:"joint_limits,omitempty" json:"joint_limits,omitempty"`
}

// JointLimit bounds a single joint position in radians
type JointLimit struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// ZeroMQConfig holds ZeroMQ-specific configuration
type ZeroMQConfig struct {
	PublishBindAddress   string `yaml:"publish_bind_address" json:"publish_bind_address"`
	TrajectoryTopic      string `yaml:"trajectory_topic" json:"trajectory_topic"`
	SubscribeConnectAddr string `yaml:"subscribe_connect_address,omitempty" json:"subscribe_connect_address,omitempty"`
}

// DefaultConfig returns the configuration of the reference deployment:
// a 7-joint arm jogged in 3 degree steps and a serial rover link at 115200.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		RobotID: "robot-teleop",
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			HTTPPort: 8080,
		},
		Serial: SerialConfig{
			BaudRate:       115200,
			SettleDelayMs:  2000,
			ReadWindowMs:   50,
			ProbeToken:     "ping",
			CandidateGlobs: []string{"/dev/ttyUSB*", "/dev/ttyACM*"},
		},
		Teleop: TeleopConfig{
			Topic:           "TELEOP",
			AllowedCommands: []string{"forward", "backward", "left", "right"},
			StopKeys:        []string{" ", "x"},
			Keymap: map[string]JogBinding{
				"q": {Joint: 0, Sign: +1}, "a": {Joint: 0, Sign: -1},
				"w": {Joint: 1, Sign: +1}, "s": {Joint: 1, Sign: -1},
				"e": {Joint: 2, Sign: +1}, "d": {Joint: 2, Sign: -1},
				"r": {Joint: 3, Sign: +1}, "f": {Joint: 3, Sign: -1},
				"t": {Joint: 4, Sign: +1}, "g": {Joint: 4, Sign: -1},
				"y": {Joint: 5, Sign: +1}, "h": {Joint: 5, Sign: -1},
				"u": {Joint: 6, Sign: +1}, "j": {Joint: 6, Sign: -1},
			},
		},
		Jog: JogConfig{
			JointNames: []string{
				"joint1", "joint2", "joint3", "joint4", "joint5", "joint6", "joint7",
			},
			StepDegrees:    3.0,
			TimeFromStartS: 0.4,
		},
		ZeroMQ: ZeroMQConfig{
			PublishBindAddress: "tcp://*:5556",
			TrajectoryTopic:    "trajectory.joint_targets",
		},
	}
}

// StepRadians returns the per-keypress jog step in radians
func (j JogConfig) StepRadians() float64 {
	return j.StepDegrees * math.Pi / 180.0
}

// LoadConfig loads the router configuration from the given directory,
// expecting a router_config.yaml file. Values not present in the file keep
// their defaults.
func LoadConfig(configDir string) (*Config, error) {
	return LoadConfigFile(filepath.Join(configDir, "router_config.yaml"))
}

// LoadConfigFile loads configuration from the specified file path
func LoadConfigFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file '%s': %w", path, err)
	}

	// Unmarshal over the defaults so partial files are valid
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the invariants the router relies on. The keymap check is
// load-bearing: it is what lets the dispatch path treat a jog binding's
// joint index as trusted.
func (c *Config) Validate() error {
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid config: serial.baud_rate must be positive, got %d", c.Serial.BaudRate)
	}
	if c.Serial.SettleDelayMs < 0 {
		return fmt.Errorf("invalid config: serial.settle_delay_ms must not be negative, got %d", c.Serial.SettleDelayMs)
	}
	if len(c.Jog.JointNames) == 0 {
		return fmt.Errorf("invalid config: jog.joint_names must not be empty")
	}
	if c.Jog.StepDegrees <= 0 {
		return fmt.Errorf("invalid config: jog.step_degrees must be positive, got %v", c.Jog.StepDegrees)
	}
	if c.Jog.TimeFromStartS <= 0 {
		return fmt.Errorf("invalid config: jog.time_from_start_s must be positive, got %v", c.Jog.TimeFromStartS)
	}
	if c.Jog.EnforceJointLimits && len(c.Jog.JointLimits) != len(c.Jog.JointNames) {
		return fmt.Errorf("invalid config: jog.joint_limits must have one entry per joint (%d), got %d",
			len(c.Jog.JointNames), len(c.Jog.JointLimits))
	}
	for key, binding := range c.Teleop.Keymap {
		if binding.Joint < 0 || binding.Joint >= len(c.Jog.JointNames) {
			return fmt.Errorf("invalid config: keymap entry '%s' references joint %d, valid range is [0,%d)",
				key, binding.Joint, len(c.Jog.JointNames))
		}
		if binding.Sign != 1 && binding.Sign != -1 {
			return fmt.Errorf("invalid config: keymap entry '%s' has sign %d, must be +1 or -1", key, binding.Sign)
		}
	}
	if c.ZeroMQ.PublishBindAddress == "" {
		return fmt.Errorf("invalid config: zeromq.publish_bind_address must not be empty")
	}
	return nil
}
