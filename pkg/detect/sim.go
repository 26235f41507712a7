package detect

import (
	"math/rand"
	"sync"
)

// Sim is a simulated detector used when no camera or vision backend is
// available. Probabilities mirror typical interview behavior: the face is
// almost always present, gaze wanders occasionally, posture and gestures
// less so. The RNG is injected so tests can seed it for determinism.
type Sim struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Simulation probabilities per detection cycle.
const (
	simFaceP    = 0.95
	simGazeP    = 0.80
	simPoseP    = 0.85
	simGestureP = 0.90
)

// NewSim creates a simulated detector driven by the given RNG.
func NewSim(rng *rand.Rand) *Sim {
	return &Sim{rng: rng}
}

// DetectFace simulates face presence. Landmarks are a fixed neutral set so
// downstream classifiers have something to chew on.
func (s *Sim) DetectFace(_ []byte) (bool, []Landmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() >= simFaceP {
		return false, nil, nil
	}
	return true, neutralLandmarks(), nil
}

// ClassifyGaze simulates gaze classification.
func (s *Sim) ClassifyGaze(_ []byte) (GazeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() < simGazeP {
		return GazeResult{Status: GazeNormal, Offset: s.rng.Float64() * gazeLookingThresh}, nil
	}
	offset := gazeLookingThresh + s.rng.Float64()*(1-gazeLookingThresh)
	return GazeResult{Status: classifyGazeOffset(false, offset), Offset: offset}, nil
}

// ClassifyPose simulates head-pose classification.
func (s *Sim) ClassifyPose(_ []byte) (PoseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() < simPoseP {
		return PoseResult{Status: PoseGood}, nil
	}
	issues := []PoseStatus{PoseHeadUp, PoseHeadDown, PoseTilted, PoseTurned}
	return PoseResult{
		Status: issues[s.rng.Intn(len(issues))],
		Angle:  s.rng.Float64()*30 - 15,
	}, nil
}

// ClassifyGesture simulates self-touch gesture classification.
func (s *Sim) ClassifyGesture(_ []byte) (GestureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() < simGestureP {
		return GestureResult{Status: GestureNone}, nil
	}
	gestures := []GestureStatus{GestureTouchFace, GestureTouchChin, GestureTouchHair, GestureRestChin}
	return GestureResult{
		Status:     gestures[s.rng.Intn(len(gestures))],
		Confidence: 0.5 + s.rng.Float64()*0.5,
	}, nil
}

// Close is a no-op for the simulated detector.
func (s *Sim) Close() error { return nil }

// neutralLandmarks returns a face centered in a 640x480 frame.
func neutralLandmarks() []Landmark {
	return []Landmark{
		{X: 290, Y: 200}, // right eye
		{X: 350, Y: 200}, // left eye
		{X: 320, Y: 240}, // nose
		{X: 300, Y: 270}, // right mouth corner
		{X: 340, Y: 270}, // left mouth corner
	}
}

// Verify implementations at compile time.
var (
	_ Detector = (*Sim)(nil)
	_ Detector = (*Vision)(nil)
)
