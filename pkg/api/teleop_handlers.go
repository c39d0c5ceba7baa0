package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/robot-teleop/router/domain/teleop"
	"github.com/robot-teleop/router/pkg/config"
	"github.com/robot-teleop/router/pkg/dispatch"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// NewCommandHandler accepts a raw teleop payload via HTTP POST and
// enqueues it for dispatch. The body is not parsed here: classification
// happens on the dispatch path, so malformed payloads are still accepted
// and audited rather than rejected at the edge.
func NewCommandHandler(queue *dispatch.Queue, logger customlog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sender := c.Get("X-Sender-Id")
		if sender == "" {
			sender = c.IP()
		}

		env := teleop.Envelope{
			RawPayload: string(c.Body()),
			SenderID:   sender,
			ReceivedAt: time.Now(),
		}

		if !queue.Enqueue(env) {
			logger.Warnf("Rejecting teleop command from %s: queue full", sender)
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "command queue full",
			})
		}

		return c.Status(fiber.StatusAccepted).JSON(CommandResponse{
			Status:     "queued",
			QueueDepth: queue.Depth(),
		})
	}
}

// NewConfigHandler serves the running configuration, read-only. The
// config is fixed at startup; live keymap swaps during teleop are unsafe,
// so there is no PUT counterpart.
func NewConfigHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(cfg)
	}
}
