package teleop

import (
	"fmt"
	"testing"

	"github.com/robot-teleop/router/pkg/config"
)

func newTestClassifier() *Classifier {
	return NewClassifier(config.DefaultConfig().Teleop)
}

func TestClassifyDiscreteMotion(t *testing.T) {
	c := newTestClassifier()

	for _, motion := range []string{"forward", "backward", "left", "right"} {
		raw := fmt.Sprintf(`{"cmd":%q,"ts":1}`, motion)
		cmd := c.Classify(raw)

		if cmd.Kind != CommandDiscreteMotion {
			t.Errorf("Expected CommandDiscreteMotion for %s, got %v", raw, cmd.Kind)
		}
		if cmd.Motion != motion {
			t.Errorf("Expected motion %q, got %q", motion, cmd.Motion)
		}
	}
}

func TestClassifyRejectsUnlistedCommands(t *testing.T) {
	c := newTestClassifier()

	for _, raw := range []string{
		`{"cmd":"jump","ts":1}`,
		`{"cmd":"FORWARD","ts":1}`,
		`{"cmd":"forward; rm -rf /","ts":1}`,
		`{"cmd":""}`,
	} {
		if cmd := c.Classify(raw); cmd.Kind != CommandUnknown {
			t.Errorf("Expected CommandUnknown for %s, got %v", raw, cmd.Kind)
		}
	}
}

func TestClassifyJointJog(t *testing.T) {
	c := newTestClassifier()

	cmd := c.Classify(`{"key":"w","ts":2}`)
	if cmd.Kind != CommandJointJog {
		t.Fatalf("Expected CommandJointJog, got %v", cmd.Kind)
	}
	if cmd.Joint != 1 || cmd.Sign != 1 {
		t.Errorf("Expected joint 1 sign +1, got joint %d sign %d", cmd.Joint, cmd.Sign)
	}

	cmd = c.Classify(`{"key":"a"}`)
	if cmd.Kind != CommandJointJog || cmd.Joint != 0 || cmd.Sign != -1 {
		t.Errorf("Expected joint 0 sign -1, got kind=%v joint=%d sign=%d", cmd.Kind, cmd.Joint, cmd.Sign)
	}
}

func TestClassifyNormalizesKeyCase(t *testing.T) {
	c := newTestClassifier()

	cmd := c.Classify(`{"key":"Q","ts":3}`)
	if cmd.Kind != CommandJointJog {
		t.Fatalf("Expected CommandJointJog for uppercase key, got %v", cmd.Kind)
	}
	if cmd.Joint != 0 || cmd.Sign != 1 {
		t.Errorf("Expected joint 0 sign +1, got joint %d sign %d", cmd.Joint, cmd.Sign)
	}
}

func TestClassifyStopKeys(t *testing.T) {
	c := newTestClassifier()

	for _, raw := range []string{`{"key":" ","ts":4}`, `{"key":"x","ts":5}`, `{"key":"X"}`} {
		if cmd := c.Classify(raw); cmd.Kind != CommandStop {
			t.Errorf("Expected CommandStop for %s, got %v", raw, cmd.Kind)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	c := newTestClassifier()

	for _, raw := range []string{
		"",
		"not json at all",
		"{",
		`[1,2,3]`,
		`null`,
		`{"key":"zz"}`,
		`{"key":""}`,
		`{"unrelated":true}`,
		`{"ts":9}`,
	} {
		cmd := c.Classify(raw)
		if cmd.Kind != CommandUnknown {
			t.Errorf("Expected CommandUnknown for %q, got %v", raw, cmd.Kind)
		}
		if cmd.Raw != raw {
			t.Errorf("Expected raw payload to be preserved for %q, got %q", raw, cmd.Raw)
		}
	}
}
