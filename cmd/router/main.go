package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/robot-teleop/router/domain/diagnostic"
	"github.com/robot-teleop/router/domain/teleop"
	"github.com/robot-teleop/router/pkg/api"
	"github.com/robot-teleop/router/pkg/config"
	"github.com/robot-teleop/router/pkg/dispatch"
	"github.com/robot-teleop/router/pkg/hwlink"
	customlog "github.com/robot-teleop/router/pkg/log"
	"github.com/robot-teleop/router/pkg/zeromq"
)

const dispatchQueueSize = 100

func main() {
	configDir := flag.String("config", "config", "directory containing router_config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}

	appLog, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}

	appLog.Infof("Starting teleop command router for robot '%s'", cfg.RobotID)

	// Core components
	link := hwlink.New(cfg.Serial, appLog)
	jog := teleop.NewJogState(cfg.Jog)
	classifier := teleop.NewClassifier(cfg.Teleop)
	stats := dispatch.NewCommandStats(appLog)

	publisher, err := zeromq.NewTrajectoryPublisher(
		cfg.ZeroMQ.PublishBindAddress,
		cfg.ZeroMQ.TrajectoryTopic,
		cfg.Jog.JointNames,
		appLog,
	)
	if err != nil {
		appLog.Fatalf("Failed to create trajectory publisher: %v", err)
	}

	router := teleop.NewRouter(classifier, link, jog, publisher, stats, cfg.Jog.TimeFromStartS, appLog)

	queue := dispatch.NewQueue(dispatchQueueSize, router.HandleEnvelope, appLog)
	queue.Start()

	// Initial serial discovery runs off the dispatch path; until it
	// finishes, discrete commands take the reconnect-and-retry route.
	go func() {
		if err := link.Connect(); err != nil {
			appLog.Warnf("Initial serial connect failed: %v (will retry on demand)", err)
		}
	}()

	// Optional gateway ingestion over ZeroMQ
	var listener *zeromq.EnvelopeListener
	if cfg.ZeroMQ.SubscribeConnectAddr != "" {
		listener, err = zeromq.NewEnvelopeListener(cfg.Teleop.Topic, queue, appLog)
		if err != nil {
			appLog.Fatalf("Failed to create envelope listener: %v", err)
		}
		if err := listener.Start(cfg.ZeroMQ.SubscribeConnectAddr); err != nil {
			appLog.Fatalf("Failed to start envelope listener: %v", err)
		}
	}

	diagnosticService := diagnostic.NewDiagnosticService(cfg.RobotID, link, queue, stats, jog)

	// HTTP surface
	app := fiber.New(fiber.Config{
		AppName:      "Teleop Command Router",
		ErrorHandler: customErrorHandler,
	})
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "teleop command router",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	app.Get("/ws/teleop", websocket.New(func(conn *websocket.Conn) {
		api.TeleopWebSocketHandler(conn, appLog, queue)
	}))

	apiGroup := app.Group("/api")
	apiGroup.Post("/teleop/command", api.NewCommandHandler(queue, appLog))
	apiGroup.Get("/diagnostics", diagnosticService.GetStatusHandler)
	apiGroup.Get("/config", api.NewConfigHandler(cfg))

	go func() {
		addr := ":" + strconv.Itoa(cfg.Server.HTTPPort)
		appLog.Infof("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			appLog.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Infof("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLog.Errorf("Server forced to shutdown: %v", err)
	}

	if listener != nil {
		listener.Stop()
	}
	queue.Stop()
	publisher.Close()
	link.Close()

	appLog.Infof("Router exited properly")
}

// customErrorHandler keeps API errors as JSON
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
