package api

import (
	"errors"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/robot-teleop/router/domain/teleop"
	"github.com/robot-teleop/router/pkg/dispatch"
	customlog "github.com/robot-teleop/router/pkg/log"
)

// TeleopWebSocketHandler ingests teleop command envelopes over a
// WebSocket connection. Each text frame is one raw payload; it is wrapped
// into an envelope and enqueued without blocking, so a slow dispatch path
// never backs up into the transport.
func TeleopWebSocketHandler(conn *websocket.Conn, logger customlog.Logger, queue *dispatch.Queue) {
	sender := conn.Query("participant")
	if sender == "" {
		sender = conn.RemoteAddr().String()
	}

	logger.Infof("Teleop WebSocket connected: %s (sender=%s)", conn.RemoteAddr(), sender)

	var (
		mt  int
		msg []byte
		err error
	)
	for {
		if mt, msg, err = conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("Teleop WS read error: %v", err)
			} else {
				// Don't log normal closures as errors
				if err != websocket.ErrCloseSent && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
					logger.Infof("Teleop WS connection closed: %v", err)
				} else {
					logger.Infof("Teleop WS connection closed normally.")
				}
			}
			break
		}

		if mt != websocket.TextMessage {
			logger.Infof("Ignoring non-text teleop WS message type: %d", mt)
			continue
		}

		env := teleop.Envelope{
			RawPayload: string(msg),
			SenderID:   sender,
			ReceivedAt: time.Now(),
		}
		queue.Enqueue(env)
	}

	logger.Infof("Teleop WebSocket disconnected: %s", conn.RemoteAddr())
}
