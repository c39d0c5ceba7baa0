package teleop

import (
	"errors"

	"github.com/robot-teleop/router/pkg/hwlink"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// HardwareLink is the router's view of the serial bridge.
type HardwareLink interface {
	Connect() error
	SendLine(cmd string) error
}

// MotionPublisher forwards a full joint-trajectory snapshot to the robot's
// motion control system. Publish failures are the collaborator's concern;
// the router only logs them.
type MotionPublisher interface {
	Publish(positions []float64, timeFromStart float64) error
}

// DispatchRecorder receives one record per dispatched command for
// diagnostics. Implementations must be cheap; it is called on the
// dispatch path.
type DispatchRecorder interface {
	RecordDispatch(kind string, timestampNs int64)
}

// Router is the single point of dispatch. It owns the hardware link and
// the jog state; both are mutated only here, one command at a time.
type Router struct {
	classifier *Classifier
	link       HardwareLink
	jog        *JogState
	publisher  MotionPublisher
	stats      DispatchRecorder
	tfs        float64
	logger     customlog.Logger
}

// NewRouter creates a command router. stats may be nil.
func NewRouter(
	classifier *Classifier,
	link HardwareLink,
	jog *JogState,
	publisher MotionPublisher,
	stats DispatchRecorder,
	timeFromStartS float64,
	logger customlog.Logger,
) *Router {
	return &Router{
		classifier: classifier,
		link:       link,
		jog:        jog,
		publisher:  publisher,
		stats:      stats,
		tfs:        timeFromStartS,
		logger:     logger,
	}
}

// HandleEnvelope classifies one envelope and dispatches the result. It
// never returns an error: every failure ends in an audit log line and a
// dropped command, never a dead process.
func (r *Router) HandleEnvelope(env Envelope) {
	cmd := r.classifier.Classify(env.RawPayload)

	if r.stats != nil {
		r.stats.RecordDispatch(cmd.Kind.String(), env.ReceivedAt.UnixNano())
	}

	switch cmd.Kind {
	case CommandDiscreteMotion:
		r.logger.Infof("Teleop received: cmd=%s ts=%v sender=%s", cmd.Motion, cmd.Ts, env.SenderID)
		r.dispatchDiscrete(cmd, env)
	case CommandJointJog:
		r.logger.Infof("Teleop received: key=%s ts=%v sender=%s", cmd.Key, cmd.Ts, env.SenderID)
		r.dispatchJog(cmd)
	case CommandStop:
		r.logger.Infof("Teleop stop/hold key='%s' sender=%s -> publishing current target", cmd.Key, env.SenderID)
		r.publishSnapshot()
	default:
		r.logger.Warnf("Teleop ignoring unknown command from sender=%s raw=%s", env.SenderID, env.RawPayload)
	}
}

// dispatchDiscrete forwards the motion word to the hardware link. On a
// not-connected link it attempts exactly one reconnect and one resend,
// then drops: teleop commands are latest-wins and stale retries are
// unsafe, so nothing is ever queued here.
func (r *Router) dispatchDiscrete(cmd Command, env Envelope) {
	err := r.link.SendLine(cmd.Motion)
	if err == nil {
		return
	}

	if errors.Is(err, hwlink.ErrNotConnected) {
		r.logger.Warnf("Serial link not connected, attempting reconnect for cmd='%s'", cmd.Motion)
		if cerr := r.link.Connect(); cerr != nil {
			r.logger.Errorf("Reconnect failed, dropping cmd='%s' sender=%s: %v", cmd.Motion, env.SenderID, cerr)
			return
		}
		if err = r.link.SendLine(cmd.Motion); err == nil {
			return
		}
	}

	r.logger.Errorf("Dropping cmd='%s' sender=%s raw=%s: %v", cmd.Motion, env.SenderID, env.RawPayload, err)
}

// dispatchJog applies the key's delta and publishes the full snapshot.
// Mutation and publish run to completion before the next command; the
// single dispatch worker makes the pair atomic.
func (r *Router) dispatchJog(cmd Command) {
	r.jog.ApplyDelta(cmd.Joint, cmd.Sign)

	snapshot := r.jog.Snapshot()
	r.logger.Infof("Teleop key='%s' -> joint%d target=%+.4f rad", cmd.Key, cmd.Joint+1, snapshot[cmd.Joint])

	r.publish(snapshot)
}

// publishSnapshot republishes the current unmodified target as a hold
// command. Stop never zeroes the state.
func (r *Router) publishSnapshot() {
	r.publish(r.jog.Snapshot())
}

func (r *Router) publish(snapshot []float64) {
	if err := r.publisher.Publish(snapshot, r.tfs); err != nil {
		r.logger.Errorf("Failed to publish trajectory target: %v", err)
	}
}
