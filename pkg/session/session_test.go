package session

import (
	"testing"
	"time"

	"github.com/coachcam/go-coach/pkg/detect"
	"github.com/coachcam/go-coach/pkg/score"
)

func attentiveSignal() detect.Signal {
	return detect.Signal{
		FaceDetected: true,
		Gaze:         detect.GazeNormal,
		Pose:         detect.PoseGood,
		Gesture:      detect.GestureNone,
	}
}

func TestStartResetsEverything(t *testing.T) {
	s := New()
	s.Start("Python Developer")

	for i := 0; i < 5; i++ {
		sig := attentiveSignal()
		sig.Gaze = detect.GazeSevereOffset
		s.Observe(sig, 42, score.Record{Score: 42})
	}
	firstID := s.ID()

	s.Start("Accountant")

	snap := s.Snapshot()
	if snap.ID == firstID {
		t.Error("restart should issue a new session ID")
	}
	if snap.Position != "Accountant" {
		t.Errorf("position = %q, want Accountant", snap.Position)
	}
	if snap.AttentionScore != score.InitialScore {
		t.Errorf("score should reset to %v, got %v", score.InitialScore, snap.AttentionScore)
	}
	if snap.GazeAwayCount != 0 || snap.PoseIssueCount != 0 || snap.GestureCount != 0 {
		t.Errorf("counters should reset, got %d/%d/%d",
			snap.GazeAwayCount, snap.PoseIssueCount, snap.GestureCount)
	}
	if len(s.History()) != 0 {
		t.Errorf("history should reset, got %d records", len(s.History()))
	}
}

func TestObserve_CountersOnlyWithFace(t *testing.T) {
	s := New()
	s.Start("General")

	// Face missing: everything is off-nominal but no counter moves.
	s.Observe(detect.Signal{
		Gaze:    detect.GazeNotDetected,
		Pose:    detect.PoseNotDetected,
		Gesture: detect.GestureNotDetected,
	}, 80, score.Record{Score: 80})

	snap := s.Snapshot()
	if snap.GazeAwayCount != 0 || snap.PoseIssueCount != 0 || snap.GestureCount != 0 {
		t.Errorf("faceless frame must not bump counters, got %d/%d/%d",
			snap.GazeAwayCount, snap.PoseIssueCount, snap.GestureCount)
	}

	// Face present with all three issues: each counter moves exactly once.
	s.Observe(detect.Signal{
		FaceDetected: true,
		Gaze:         detect.GazeModerateOffset,
		Pose:         detect.PoseTilted,
		Gesture:      detect.GestureTouchChin,
	}, 60, score.Record{Score: 60})

	snap = s.Snapshot()
	if snap.GazeAwayCount != 1 {
		t.Errorf("gaze away count = %d, want 1", snap.GazeAwayCount)
	}
	if snap.PoseIssueCount != 1 {
		t.Errorf("pose issue count = %d, want 1", snap.PoseIssueCount)
	}
	if snap.GestureCount != 1 {
		t.Errorf("gesture count = %d, want 1", snap.GestureCount)
	}

	// Clean frame: no counter moves.
	s.Observe(attentiveSignal(), 90, score.Record{Score: 90})
	snap = s.Snapshot()
	if snap.GazeAwayCount != 1 || snap.PoseIssueCount != 1 || snap.GestureCount != 1 {
		t.Errorf("clean frame must not bump counters, got %d/%d/%d",
			snap.GazeAwayCount, snap.PoseIssueCount, snap.GestureCount)
	}
}

func TestHistoryBound(t *testing.T) {
	s := New()
	s.Start("General")

	for i := 0; i < MaxHistory+1; i++ {
		s.Observe(attentiveSignal(), float64(i), score.Record{Score: float64(i)})
	}

	hist := s.History()
	if len(hist) != MaxHistory {
		t.Fatalf("history length = %d, want %d", len(hist), MaxHistory)
	}
	// Record 0 fell off the front; the last record is the newest.
	if hist[0].Score != 1 {
		t.Errorf("oldest surviving record score = %v, want 1", hist[0].Score)
	}
	if hist[len(hist)-1].Score != MaxHistory {
		t.Errorf("newest record score = %v, want %v", hist[len(hist)-1].Score, MaxHistory)
	}
}

func TestElapsed(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return current })

	if s.Elapsed() != 0 {
		t.Errorf("elapsed before start = %v, want 0", s.Elapsed())
	}

	s.Start("General")
	current = current.Add(90 * time.Second)

	if got := s.Elapsed(); got != 90*time.Second {
		t.Errorf("elapsed = %v, want 90s", got)
	}

	s.Stop()
	if s.Elapsed() != 0 {
		t.Errorf("elapsed after stop = %v, want 0", s.Elapsed())
	}
}

func TestStopKeepsHistory(t *testing.T) {
	s := New()
	s.Start("General")
	s.Observe(attentiveSignal(), 95, score.Record{Score: 95})
	s.Stop()

	if s.Running() {
		t.Error("session should not be running after Stop")
	}
	if len(s.History()) != 1 {
		t.Errorf("history should survive Stop for reporting, got %d records", len(s.History()))
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New()
	s.Start("General")
	s.Observe(attentiveSignal(), 95, score.Record{Score: 95})

	snap := s.Snapshot()
	s.Observe(detect.Signal{
		Gaze:    detect.GazeNotDetected,
		Pose:    detect.PoseNotDetected,
		Gesture: detect.GestureNotDetected,
	}, 70, score.Record{Score: 70})

	if snap.AttentionScore != 95 {
		t.Errorf("snapshot mutated by later observation: %v", snap.AttentionScore)
	}
	if !snap.FaceDetected {
		t.Error("snapshot should keep the state at capture time")
	}
}
