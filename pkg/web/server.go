// Package web serves the coaching dashboard: the REST API for session
// control, the MJPEG preview, and the live status websocket.
package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/coachcam/go-coach/pkg/camera"
	"github.com/coachcam/go-coach/pkg/coach"
	"github.com/coachcam/go-coach/pkg/hub"
)

// statusInterval paces the websocket status broadcast.
const statusInterval = 500 * time.Millisecond

// Server is the dashboard server. It owns no coaching state of its own;
// everything it serves comes from the Coach.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	coach *coach.Coach

	// cam is the live camera manager, nil when running on a synthetic
	// source. Camera config endpoints 503 without it.
	cam *camera.Manager

	statusHub *hub.Hub

	done chan struct{}
}

// NewServer creates the dashboard server around a Coach.
func NewServer(port string, c *coach.Coach, cam *camera.Manager, logger *slog.Logger) *Server {
	s := &Server{
		port:      port,
		logger:    logger.With("component", "web"),
		coach:     c,
		cam:       cam,
		statusHub: hub.New("status", logger),
		done:      make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Interview Coach",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static dashboard files
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/start", s.handleStart)
	api.Post("/stop", s.handleStop)
	api.Get("/status", s.handleStatus)
	api.Get("/report", s.handleReport)
	api.Get("/question", s.handleCurrentQuestion)
	api.Post("/question/next", s.handleNextQuestion)
	api.Get("/snapshot", s.handleSnapshot)
	api.Get("/video_feed", s.handleVideoFeed)
	api.Post("/voice_test", s.handleVoiceTest)
	api.Get("/camera/config", s.handleCameraConfig)
	api.Post("/camera/config", s.handleCameraUpdate)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the hub, the status broadcast loop, and the HTTP listener.
// It blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "url", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.statusLoop()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
}

// statusLoop pushes the session snapshot to websocket clients on a fixed
// cadence. Broadcasting with no clients is cheap, so it does not bother
// checking the client count.
func (s *Server) statusLoop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.statusHub.BroadcastJSON(s.statusPayload())
		}
	}
}

// handleStatusWS serves the live status stream. The current snapshot is
// written immediately so clients render without waiting for the next tick.
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	conn.WriteJSON(s.statusPayload())

	client := hub.NewClient(s.statusHub, conn)
	client.Run()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return s.app.Shutdown()
}
