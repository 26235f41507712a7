// Package detect defines the per-frame attention signals and the boundary
// between the scoring core and the computer-vision backends that produce
// them. Backends implement Detector; Sample converts raw detector output
// (including errors and panics) into a well-formed Signal so the scorer
// never sees a failure mode it has to handle.
package detect

import (
	"time"
)

// GazeStatus classifies where the subject is looking relative to the camera.
type GazeStatus string

const (
	GazeNormal         GazeStatus = "normal"
	GazeSlightOffset   GazeStatus = "slight_offset"
	GazeModerateOffset GazeStatus = "moderate_offset"
	GazeSevereOffset   GazeStatus = "severe_offset"
	GazeNotDetected    GazeStatus = "not_detected"
	GazeFailed         GazeStatus = "failed"
)

// PoseStatus classifies head pose.
type PoseStatus string

const (
	PoseGood        PoseStatus = "good"
	PoseHeadUp      PoseStatus = "head_up"
	PoseHeadDown    PoseStatus = "head_down"
	PoseTilted      PoseStatus = "tilted"
	PoseTurned      PoseStatus = "turned"
	PoseNotDetected PoseStatus = "not_detected"
	PoseFailed      PoseStatus = "failed"
)

// GestureStatus classifies self-touch gestures.
type GestureStatus string

const (
	GestureNone        GestureStatus = "none"
	GestureTouchFace   GestureStatus = "touch_face"
	GestureTouchChin   GestureStatus = "touch_chin"
	GestureTouchHair   GestureStatus = "touch_hair"
	GestureRestChin    GestureStatus = "rest_chin"
	GestureNotDetected GestureStatus = "not_detected"
	GestureFailed      GestureStatus = "failed"
)

// Signal is the per-frame detection result consumed by the scorer.
// It is ephemeral: created fresh each detection cycle and not retained.
type Signal struct {
	FaceDetected bool
	Gaze         GazeStatus
	Pose         PoseStatus
	Gesture      GestureStatus

	// Numeric side channels, informational only.
	GazeOffset   float64 // eye-center offset as a fraction of half frame width
	PoseAngle    float64 // eye-line tilt in degrees
	GestureScore float64 // classifier confidence 0-1

	Time time.Time
}

// Landmark is a facial keypoint in pixel coordinates.
type Landmark struct {
	X, Y float64
}

// GazeResult is the raw gaze classification.
type GazeResult struct {
	Status GazeStatus
	Offset float64
}

// PoseResult is the raw head-pose classification.
type PoseResult struct {
	Status PoseStatus
	Angle  float64
}

// GestureResult is the raw gesture classification.
type GestureResult struct {
	Status     GestureStatus
	Confidence float64
}

// Detector is the boundary interface to a computer-vision backend.
// Frames are encoded JPEG. Implementations must be safe to call every
// frame; they may return errors, which Sample converts to Failed
// statuses rather than propagating.
type Detector interface {
	// DetectFace reports whether a face is present and its landmarks.
	DetectFace(jpeg []byte) (bool, []Landmark, error)

	// ClassifyGaze classifies gaze direction for the current frame.
	ClassifyGaze(jpeg []byte) (GazeResult, error)

	// ClassifyPose classifies head pose for the current frame.
	ClassifyPose(jpeg []byte) (PoseResult, error)

	// ClassifyGesture classifies self-touch gestures for the current frame.
	ClassifyGesture(jpeg []byte) (GestureResult, error)

	// Close releases backend resources.
	Close() error
}

// Sample runs the full detector set against one frame and assembles a
// Signal. A detector error or panic degrades that dimension to Failed and
// the frame continues to be scored; this is the only place failure
// conversion happens, so the scorer can assume every status is valid.
//
// When no face is detected the remaining dimensions are forced to their
// not-detected sentinel without running the classifiers, matching the
// face-missing short-circuit of the capture loop.
func Sample(d Detector, jpeg []byte, now time.Time) Signal {
	sig := Signal{Time: now}

	hasFace, landmarks, err := safeDetectFace(d, jpeg)
	if err != nil {
		hasFace = false
	}
	sig.FaceDetected = hasFace && len(landmarks) > 0

	if !sig.FaceDetected {
		sig.Gaze = GazeNotDetected
		sig.Pose = PoseNotDetected
		sig.Gesture = GestureNotDetected
		sig.GazeOffset = 1.0
		return sig
	}

	if gr, err := safeClassifyGaze(d, jpeg); err != nil {
		sig.Gaze = GazeFailed
	} else {
		sig.Gaze = gr.Status
		sig.GazeOffset = gr.Offset
	}

	if pr, err := safeClassifyPose(d, jpeg); err != nil {
		sig.Pose = PoseFailed
	} else {
		sig.Pose = pr.Status
		sig.PoseAngle = pr.Angle
	}

	if gr, err := safeClassifyGesture(d, jpeg); err != nil {
		sig.Gesture = GestureFailed
	} else {
		sig.Gesture = gr.Status
		sig.GestureScore = gr.Confidence
	}

	return sig
}

func safeDetectFace(d Detector, jpeg []byte) (hasFace bool, lm []Landmark, err error) {
	defer recoverTo(&err)
	return d.DetectFace(jpeg)
}

func safeClassifyGaze(d Detector, jpeg []byte) (r GazeResult, err error) {
	defer recoverTo(&err)
	return d.ClassifyGaze(jpeg)
}

func safeClassifyPose(d Detector, jpeg []byte) (r PoseResult, err error) {
	defer recoverTo(&err)
	return d.ClassifyPose(jpeg)
}

func safeClassifyGesture(d Detector, jpeg []byte) (r GestureResult, err error) {
	defer recoverTo(&err)
	return d.ClassifyGesture(jpeg)
}

func recoverTo(err *error) {
	if r := recover(); r != nil {
		*err = &PanicError{Value: r}
	}
}
