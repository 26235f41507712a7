package web

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/coachcam/go-coach/pkg/questions"
	"github.com/coachcam/go-coach/pkg/session"
)

// feedInterval paces the MJPEG stream independently of the capture rate.
const feedInterval = time.Second / 15

// statusPayload is the wire shape of /api/status and the websocket stream.
type statusPayload struct {
	session.Snapshot
	CurrentQuestion *questions.Question `json:"current_question,omitempty"`
	QuestionsAsked  int                 `json:"questions_asked"`
	QuestionsTotal  int                 `json:"questions_total"`
	LastAdvice      string              `json:"last_advice,omitempty"`
}

func (s *Server) statusPayload() statusPayload {
	asked, total := s.coach.QuestionProgress()
	return statusPayload{
		Snapshot:        s.coach.Status(),
		CurrentQuestion: s.coach.CurrentQuestion(),
		QuestionsAsked:  asked,
		QuestionsTotal:  total,
		LastAdvice:      s.coach.Gate().Latest(),
	}
}

// handleHealth reports component liveness: the status hub, the frame
// source, and whether speech playback is underway.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	_, frameErr := s.coach.Source().Frame()
	return c.JSON(fiber.Map{
		"status":          "ok",
		"session_running": s.coach.Session().Running(),
		"camera_live":     s.cam != nil,
		"frame_ready":     frameErr == nil,
		"hub_running":     s.statusHub.IsRunning(),
		"status_clients":  s.statusHub.ClientCount(),
		"speaking":        s.coach.Gate().Speaking(),
	})
}

// startRequest is the body of POST /api/start.
type startRequest struct {
	Position string `json:"position"`
}

// handleStart begins a coaching session.
func (s *Server) handleStart(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Position == "" {
		req.Position = "General"
	}

	first := s.coach.StartSession(req.Position)

	resp := fiber.Map{
		"session_id": s.coach.Session().ID(),
		"position":   req.Position,
	}
	if first != nil {
		resp["first_question"] = first
	}
	return c.JSON(resp)
}

// handleStop ends the session and returns the final report.
func (s *Server) handleStop(c *fiber.Ctx) error {
	if !s.coach.Session().Running() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "no session running",
		})
	}
	rep := s.coach.StopSession()
	return c.JSON(rep)
}

// handleStatus returns the current session snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.statusPayload())
}

// handleReport analyzes the session so far without stopping it.
func (s *Server) handleReport(c *fiber.Ctx) error {
	return c.JSON(s.coach.Report())
}

// handleCurrentQuestion returns the question being answered.
func (s *Server) handleCurrentQuestion(c *fiber.Ctx) error {
	q := s.coach.CurrentQuestion()
	if q == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no active question",
		})
	}
	asked, total := s.coach.QuestionProgress()
	return c.JSON(fiber.Map{
		"question": q,
		"asked":    asked,
		"total":    total,
	})
}

// handleNextQuestion advances to the next question.
func (s *Server) handleNextQuestion(c *fiber.Ctx) error {
	if !s.coach.Session().Running() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "no session running",
		})
	}
	q := s.coach.NextQuestion()
	if q == nil {
		return c.JSON(fiber.Map{"done": true})
	}
	asked, total := s.coach.QuestionProgress()
	return c.JSON(fiber.Map{
		"question": q,
		"asked":    asked,
		"total":    total,
	})
}

// handleSnapshot returns the latest frame as a base64 data URI.
func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	frame, err := s.coach.Source().Frame()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no frame available",
		})
	}
	return c.JSON(fiber.Map{
		"image": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame),
	})
}

// handleVideoFeed streams the camera as multipart MJPEG.
func (s *Server) handleVideoFeed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary=frame")

	src := s.coach.Source()
	done := s.done
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(feedInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}

			frame, err := src.Frame()
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w,
				"--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n",
				len(frame)); err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			if _, err := w.WriteString("\r\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

// handleVoiceTest speaks the voice test line, bypassing the cooldown.
func (s *Server) handleVoiceTest(c *fiber.Ctx) error {
	spoken := s.coach.Gate().VoiceTest()
	return c.JSON(fiber.Map{"spoken": spoken})
}

// handleCameraConfig returns the live camera configuration.
func (s *Server) handleCameraConfig(c *fiber.Ctx) error {
	if s.cam == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no live camera",
		})
	}
	return c.JSON(s.cam.GetConfigJSON())
}

// handleCameraUpdate applies camera parameter overrides, optionally starting
// from a preset.
func (s *Server) handleCameraUpdate(c *fiber.Ctx) error {
	if s.cam == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no live camera",
		})
	}

	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := s.cam.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(s.cam.GetConfigJSON())
}
