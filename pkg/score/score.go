// Package score turns per-frame detection signals into a single smoothed
// attention score. Each signal maps to a banded sub-score, the four
// sub-scores combine through fixed weights, a small bonus rewards sustained
// sessions, and exponential smoothing keeps the composite from jittering
// frame to frame.
package score

import (
	"time"

	"github.com/coachcam/go-coach/pkg/detect"
)

// Dimension weights. These must sum to exactly 1.0; see TestWeightSum.
const (
	WeightFace    = 0.30
	WeightGaze    = 0.35
	WeightPosture = 0.20
	WeightGesture = 0.15
)

// Smoothing keeps 80% of the previous composite each frame.
const (
	SmoothingPrev = 0.8
	SmoothingNew  = 0.2
)

// Time bonus: one point per ten seconds of session, capped at ten points.
// The bonus depends only on elapsed time, not behavior; it acts as a
// settling-in grace rather than a reward for staying attentive.
const (
	BonusCap     = 10.0
	BonusPerSec  = 0.1
	InitialScore = 100.0
)

// Record is an immutable snapshot of one scored frame. Sub-scores are the
// un-smoothed band values so post-session analysis can break the composite
// down per dimension.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	Face      float64   `json:"face_score"`
	Gaze      float64   `json:"gaze_score"`
	Posture   float64   `json:"posture_score"`
	Gesture   float64   `json:"gesture_score"`
}

// Subscores maps a signal to its four banded sub-scores.
func Subscores(sig detect.Signal) (face, gaze, posture, gesture float64) {
	if sig.FaceDetected {
		face = 100
	}

	switch sig.Gaze {
	case detect.GazeNormal:
		gaze = 100
	case detect.GazeSlightOffset:
		gaze = 70
	case detect.GazeModerateOffset:
		gaze = 40
	default: // severe offset, failed, not detected
		gaze = 10
	}

	switch sig.Pose {
	case detect.PoseGood:
		posture = 100
	case detect.PoseHeadUp:
		posture = 75
	case detect.PoseHeadDown:
		posture = 70
	case detect.PoseTilted:
		posture = 65
	case detect.PoseTurned:
		posture = 60
	default: // failed, not detected
		posture = 50
	}

	if sig.Gesture == detect.GestureNone {
		gesture = 100
	} else {
		gesture = 70
	}

	return face, gaze, posture, gesture
}

// Compute scores one frame. prev is the previous smoothed composite;
// elapsed is the session duration at this frame. The returned composite is
// always within [0,100], as is every sub-score in the record.
func Compute(sig detect.Signal, elapsed time.Duration, prev float64) (float64, Record) {
	face, gaze, posture, gesture := Subscores(sig)

	raw := face*WeightFace + gaze*WeightGaze + posture*WeightPosture + gesture*WeightGesture

	bonus := elapsed.Seconds() * BonusPerSec
	if bonus > BonusCap {
		bonus = BonusCap
	}

	target := clamp(raw + bonus)
	composite := clamp(SmoothingPrev*prev + SmoothingNew*target)

	ts := sig.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return composite, Record{
		Timestamp: ts,
		Score:     composite,
		Face:      face,
		Gaze:      gaze,
		Posture:   posture,
		Gesture:   gesture,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
