package detect

import (
	"math"
	"testing"
)

func TestClassifyGazeOffset(t *testing.T) {
	tests := []struct {
		name      string
		isLooking bool
		offset    float64
		want      GazeStatus
	}{
		{"looking overrides offset", true, 0.9, GazeNormal},
		{"slight", false, 0.2, GazeSlightOffset},
		{"moderate", false, 0.4, GazeModerateOffset},
		{"severe", false, 0.7, GazeSevereOffset},
		{"boundary slight/moderate", false, 0.3, GazeModerateOffset},
		{"boundary moderate/severe", false, 0.5, GazeSevereOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyGazeOffset(tt.isLooking, tt.offset); got != tt.want {
				t.Errorf("classifyGazeOffset(%v, %v) = %v, want %v",
					tt.isLooking, tt.offset, got, tt.want)
			}
		})
	}
}

func TestGazeOffset(t *testing.T) {
	// Eyes centered in a 640-wide frame.
	centered := []Landmark{{X: 300, Y: 200}, {X: 340, Y: 200}}
	off, ok := gazeOffset(centered, 640)
	if !ok {
		t.Fatal("expected a valid offset")
	}
	if off != 0 {
		t.Errorf("centered eyes should give offset 0, got %v", off)
	}

	// Eye center at 480 in a 640-wide frame: |480-320|/320 = 0.5.
	shifted := []Landmark{{X: 460, Y: 200}, {X: 500, Y: 200}}
	off, _ = gazeOffset(shifted, 640)
	if math.Abs(off-0.5) > 1e-9 {
		t.Errorf("offset = %v, want 0.5", off)
	}

	// Degenerate inputs report the maximum offset.
	if off, ok := gazeOffset(nil, 640); ok || off != 1.0 {
		t.Errorf("missing landmarks should give (1.0, false), got (%v, %v)", off, ok)
	}
	if _, ok := gazeOffset(centered, 0); ok {
		t.Error("zero frame width should not be valid")
	}
}

// neutralPose returns landmarks for a level, forward-facing head: eyes 40px
// apart, nose centered below at 70% of the span.
func neutralPose() []Landmark {
	return []Landmark{
		{X: 300, Y: 200}, // right eye
		{X: 340, Y: 200}, // left eye
		{X: 320, Y: 228}, // nose
		{X: 305, Y: 250},
		{X: 335, Y: 250},
	}
}

func TestClassifyPose(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		r := classifyPose(neutralPose())
		if r.Status != PoseGood {
			t.Errorf("neutral pose = %v, want %v", r.Status, PoseGood)
		}
	})

	t.Run("head up", func(t *testing.T) {
		lm := neutralPose()
		lm[2].Y = 210 // nose nearly level with the eyes
		if r := classifyPose(lm); r.Status != PoseHeadUp {
			t.Errorf("status = %v, want %v", r.Status, PoseHeadUp)
		}
	})

	t.Run("head down", func(t *testing.T) {
		lm := neutralPose()
		lm[2].Y = 245 // nose far below the eye line
		if r := classifyPose(lm); r.Status != PoseHeadDown {
			t.Errorf("status = %v, want %v", r.Status, PoseHeadDown)
		}
	})

	t.Run("tilted", func(t *testing.T) {
		lm := neutralPose()
		lm[1].Y = 215 // left eye 15px lower over a 40px span, ~20 degrees
		lm[2].Y = 235
		if r := classifyPose(lm); r.Status != PoseTilted {
			t.Errorf("status = %v, want %v", r.Status, PoseTilted)
		}
	})

	t.Run("turned", func(t *testing.T) {
		lm := neutralPose()
		lm[2].X = 302 // nose shifted toward one eye
		if r := classifyPose(lm); r.Status != PoseTurned {
			t.Errorf("status = %v, want %v", r.Status, PoseTurned)
		}
	})

	t.Run("too few landmarks", func(t *testing.T) {
		if r := classifyPose(neutralPose()[:2]); r.Status != PoseNotDetected {
			t.Errorf("status = %v, want %v", r.Status, PoseNotDetected)
		}
	})
}

func TestBoolWindow(t *testing.T) {
	var w boolWindow

	if w.majority() {
		t.Error("empty window should not report majority")
	}

	// 3 of 5 true is 60%, not strictly above the threshold.
	for _, v := range []bool{true, true, true, false, false} {
		w.push(v)
	}
	if w.majority() {
		t.Error("60% should not pass the strict threshold")
	}

	// 4 of 5 true passes.
	w = boolWindow{}
	for _, v := range []bool{true, true, true, true, false} {
		w.push(v)
	}
	if !w.majority() {
		t.Error("80% should pass")
	}

	// Window keeps only the last five samples.
	for i := 0; i < 10; i++ {
		w.push(false)
	}
	if len(w.samples) != smoothWindow {
		t.Errorf("window size = %d, want %d", len(w.samples), smoothWindow)
	}
	if w.majority() {
		t.Error("all-false window should not report majority")
	}
}

func TestPoseWindow(t *testing.T) {
	var w poseWindow

	if got := w.modal(); got != PoseNotDetected {
		t.Errorf("empty window modal = %v, want %v", got, PoseNotDetected)
	}

	for _, s := range []PoseStatus{PoseGood, PoseTilted, PoseGood, PoseHeadUp, PoseGood} {
		w.push(s)
	}
	if got := w.modal(); got != PoseGood {
		t.Errorf("modal = %v, want %v", got, PoseGood)
	}

	// A tie resolves to the most recent status.
	w = poseWindow{}
	for _, s := range []PoseStatus{PoseGood, PoseGood, PoseTilted, PoseTilted} {
		w.push(s)
	}
	if got := w.modal(); got != PoseTilted {
		t.Errorf("tie modal = %v, want most recent %v", got, PoseTilted)
	}
}
