// Package session owns the mutable state of one coaching session: running
// flag, counters, the bounded attention history, and the current smoothed
// score. A Session is an explicit object passed to whoever needs it; there
// is no process-wide singleton, so multiple sessions can coexist.
//
// The capture loop writes and the HTTP layer reads concurrently, so every
// method takes the session lock and readers get point-in-time copies.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coachcam/go-coach/pkg/detect"
	"github.com/coachcam/go-coach/pkg/score"
)

// MaxHistory bounds the attention history; the oldest record is evicted on
// overflow.
const MaxHistory = 1000

// Session tracks one start-to-stop monitoring interval.
type Session struct {
	mu sync.Mutex

	id        string
	running   bool
	startTime time.Time
	position  string

	attentionScore float64

	gazeAwayCount  int
	poseIssueCount int
	gestureCount   int

	history []score.Record

	// Latest raw statuses, for the status query surface.
	lastSignal detect.Signal

	now func() time.Time // injected clock for tests
}

// Snapshot is a point-in-time copy of session state for readers.
type Snapshot struct {
	ID             string               `json:"session_id"`
	Running        bool                 `json:"is_running"`
	Position       string               `json:"position"`
	AttentionScore float64              `json:"attention_score"`
	FaceDetected   bool                 `json:"face_detected"`
	GazeStatus     detect.GazeStatus    `json:"gaze_status"`
	PoseStatus     detect.PoseStatus    `json:"pose_status"`
	GestureStatus  detect.GestureStatus `json:"gesture_status"`
	GazeAwayCount  int                  `json:"gaze_away_count"`
	PoseIssueCount int                  `json:"pose_issue_count"`
	GestureCount   int                  `json:"gesture_count"`
	ElapsedSeconds float64              `json:"session_time"`
}

// New creates an idle session.
func New() *Session {
	return &Session{
		attentionScore: score.InitialScore,
		lastSignal: detect.Signal{
			Gaze:    detect.GazeNotDetected,
			Pose:    detect.PoseNotDetected,
			Gesture: detect.GestureNotDetected,
		},
		now: time.Now,
	}
}

// NewWithClock creates a session with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Session {
	s := New()
	s.now = now
	return s
}

// Start begins a session for the given position. Counters, history, and the
// score reset together; starting while already running is a stop-then-start.
func (s *Session) Start(position string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.NewString()
	s.running = true
	s.startTime = s.now()
	s.position = position
	s.attentionScore = score.InitialScore
	s.gazeAwayCount = 0
	s.poseIssueCount = 0
	s.gestureCount = 0
	s.history = s.history[:0]
}

// Stop ends the session. History survives for reporting.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Running reports whether the session is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ID returns the current session ID, empty before the first Start.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Position returns the position the session was started for.
func (s *Session) Position() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Elapsed returns the session duration, zero when not running.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	if !s.running {
		return 0
	}
	return s.now().Sub(s.startTime)
}

// Score returns the current smoothed attention score.
func (s *Session) Score() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attentionScore
}

// Observe applies one scored frame: it updates the smoothed score, bumps
// each counter at most once for this frame, and appends the record to the
// bounded history. All of it happens under one lock acquisition so readers
// never see a half-applied frame.
func (s *Session) Observe(sig detect.Signal, composite float64, rec score.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSignal = sig
	s.attentionScore = composite

	if sig.FaceDetected {
		if sig.Gaze != detect.GazeNormal {
			s.gazeAwayCount++
		}
		if sig.Pose != detect.PoseGood {
			s.poseIssueCount++
		}
		if sig.Gesture != detect.GestureNone {
			s.gestureCount++
		}
	}

	s.history = append(s.history, rec)
	if len(s.history) > MaxHistory {
		s.history = s.history[len(s.history)-MaxHistory:]
	}
}

// History returns a copy of the attention history.
func (s *Session) History() []score.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]score.Record, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot returns a point-in-time copy of the visible session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:             s.id,
		Running:        s.running,
		Position:       s.position,
		AttentionScore: s.attentionScore,
		FaceDetected:   s.lastSignal.FaceDetected,
		GazeStatus:     s.lastSignal.Gaze,
		PoseStatus:     s.lastSignal.Pose,
		GestureStatus:  s.lastSignal.Gesture,
		GazeAwayCount:  s.gazeAwayCount,
		PoseIssueCount: s.poseIssueCount,
		GestureCount:   s.gestureCount,
		ElapsedSeconds: s.elapsedLocked().Seconds(),
	}
}
