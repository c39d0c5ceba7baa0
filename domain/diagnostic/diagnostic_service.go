package diagnostic

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/robot-teleop/router/domain/teleop"
	"github.com/robot-teleop/router/pkg/dispatch"
	"github.com/robot-teleop/router/pkg/hwlink"
)

// RouterStatus is a point-in-time snapshot of the command router
type RouterStatus struct {
	Timestamp    time.Time                         `json:"timestamp"`
	RobotID      string                            `json:"robot_id"`
	Link         hwlink.Status                     `json:"link"`
	Queue        QueueStatus                       `json:"queue"`
	JointNames   []string                          `json:"joint_names"`
	JointTargets []float64                         `json:"joint_targets"`
	Commands     map[string]map[string]interface{} `json:"commands"`
}

// QueueStatus summarizes the dispatch queue counters
type QueueStatus struct {
	Depth     int   `json:"depth"`
	Processed int64 `json:"processed"`
	Dropped   int64 `json:"dropped"`
	Queued    int64 `json:"queued"`
}

// DiagnosticService assembles router status for the API. It only reads:
// the jog state and link stay owned by the dispatch path.
type DiagnosticService struct {
	robotID string
	link    *hwlink.Link
	queue   *dispatch.Queue
	stats   *dispatch.CommandStats
	jog     *teleop.JogState
}

// NewDiagnosticService creates a new diagnostic service instance
func NewDiagnosticService(robotID string, link *hwlink.Link, queue *dispatch.Queue, stats *dispatch.CommandStats, jog *teleop.JogState) *DiagnosticService {
	return &DiagnosticService{
		robotID: robotID,
		link:    link,
		queue:   queue,
		stats:   stats,
		jog:     jog,
	}
}

// GetStatus returns the current router status
func (s *DiagnosticService) GetStatus() RouterStatus {
	metrics := s.queue.GetMetrics()

	return RouterStatus{
		Timestamp: time.Now(),
		RobotID:   s.robotID,
		Link:      s.link.GetStatus(),
		Queue: QueueStatus{
			Depth:     s.queue.Depth(),
			Processed: metrics.ProcessedCount,
			Dropped:   metrics.DroppedCount,
			Queued:    metrics.QueuedCount,
		},
		JointNames:   s.jog.Names(),
		JointTargets: s.jog.Snapshot(),
		Commands:     s.stats.GetStats(),
	}
}

// GetStatusHandler handles API requests for the router status
func (s *DiagnosticService) GetStatusHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "success",
		"diagnostics": s.GetStatus(),
	})
}
