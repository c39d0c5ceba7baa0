package config

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tempDir, err := ioutil.TempDir("", "router-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	configPath := filepath.Join(tempDir, "router_config.yaml")
	if err := ioutil.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return tempDir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	// A minimal file: everything not mentioned keeps its default
	configDir := writeConfig(t, `
robot_id: "bench-arm"
server:
  http_port: 9090
`)

	cfg, err := LoadConfig(configDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.RobotID != "bench-arm" {
		t.Errorf("Expected robot_id bench-arm, got %s", cfg.RobotID)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("Expected http_port 9090, got %d", cfg.Server.HTTPPort)
	}

	// Reference deployment defaults
	if cfg.Serial.BaudRate != 115200 {
		t.Errorf("Expected default baud_rate 115200, got %d", cfg.Serial.BaudRate)
	}
	if cfg.Serial.SettleDelayMs != 2000 {
		t.Errorf("Expected default settle_delay_ms 2000, got %d", cfg.Serial.SettleDelayMs)
	}
	if len(cfg.Jog.JointNames) != 7 {
		t.Errorf("Expected 7 default joints, got %d", len(cfg.Jog.JointNames))
	}
	if cfg.Jog.TimeFromStartS != 0.4 {
		t.Errorf("Expected default time_from_start_s 0.4, got %v", cfg.Jog.TimeFromStartS)
	}
	if len(cfg.Teleop.AllowedCommands) != 4 {
		t.Errorf("Expected 4 allowed commands, got %d", len(cfg.Teleop.AllowedCommands))
	}
	if binding, ok := cfg.Teleop.Keymap["u"]; !ok || binding.Joint != 6 || binding.Sign != 1 {
		t.Errorf("Expected default keymap binding u -> joint 6 sign +1, got %+v (found=%v)", binding, ok)
	}
	if cfg.Jog.EnforceJointLimits {
		t.Errorf("Joint limits must be off by default")
	}
}

func TestStepRadians(t *testing.T) {
	cfg := DefaultConfig()

	expected := 3.0 * math.Pi / 180.0
	if got := cfg.Jog.StepRadians(); math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected step %v rad, got %v", expected, got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	tempDir, err := ioutil.TempDir("", "router-config-missing")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	if _, err := LoadConfig(tempDir); err == nil {
		t.Errorf("Expected error for missing config file, got nil")
	}
}

func TestValidateRejectsOutOfRangeKeymap(t *testing.T) {
	configDir := writeConfig(t, `
jog:
  joint_names: ["joint1", "joint2"]
  step_degrees: 3.0
  time_from_start_s: 0.4
`)

	// Default keymap binds keys up to joint 6; with only two joints the
	// table is inconsistent and must be rejected.
	_, err := LoadConfig(configDir)
	if err == nil {
		t.Fatalf("Expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "keymap") {
		t.Errorf("Expected keymap validation error, got: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero baud rate",
			mutate: func(c *Config) { c.Serial.BaudRate = 0 },
			want:   "baud_rate",
		},
		{
			name:   "no joints",
			mutate: func(c *Config) { c.Jog.JointNames = nil; c.Teleop.Keymap = nil },
			want:   "joint_names",
		},
		{
			name:   "negative step",
			mutate: func(c *Config) { c.Jog.StepDegrees = -1 },
			want:   "step_degrees",
		},
		{
			name:   "bad sign",
			mutate: func(c *Config) { c.Teleop.Keymap["q"] = JogBinding{Joint: 0, Sign: 2} },
			want:   "sign",
		},
		{
			name:   "limits enabled without entries",
			mutate: func(c *Config) { c.Jog.EnforceJointLimits = true },
			want:   "joint_limits",
		},
		{
			name:   "empty publish address",
			mutate: func(c *Config) { c.ZeroMQ.PublishBindAddress = "" },
			want:   "publish_bind_address",
		},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %q, got: %v", tc.name, tc.want, err)
		}
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default configuration failed validation: %v", err)
	}
}
