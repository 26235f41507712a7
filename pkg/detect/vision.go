package detect

import (
	"log/slog"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Vision implements Detector on top of the YuNet face model. Gaze and head
// pose are derived from the five facial landmarks, gestures from skin-toned
// hand blobs around the face box; every dimension is smoothed over a short
// window to suppress single-frame flicker.
type Vision struct {
	net    *yuNet
	logger *slog.Logger

	mu         sync.Mutex
	lastFrame  frameState
	gazeWin    boolWindow
	poseWin    poseWindow
	gestureWin gestureWindow
}

// frameState caches the last DetectFace result so the per-frame classify
// calls do not re-run inference on the same JPEG bytes.
type frameState struct {
	key   string
	face  *Face
	width int
}

// NewVision creates a vision-backed detector using the YuNet model at the
// configured path.
func NewVision(cfg YuNetConfig, logger *slog.Logger) (*Vision, error) {
	net, err := newYuNet(cfg)
	if err != nil {
		return nil, err
	}
	return &Vision{
		net:    net,
		logger: logger.With("component", "detect.vision"),
	}, nil
}

// DetectFace reports whether a face is present and its landmarks.
func (v *Vision) DetectFace(jpeg []byte) (bool, []Landmark, error) {
	faces, w, _, err := v.net.detect(jpeg)
	if err != nil {
		return false, nil, err
	}

	best := bestFace(faces)

	v.mu.Lock()
	if best == nil {
		v.lastFrame = frameState{key: frameKey(jpeg)}
	} else {
		v.lastFrame = frameState{key: frameKey(jpeg), face: best, width: w}
	}
	v.mu.Unlock()

	if best == nil {
		return false, nil, nil
	}
	return true, best.Landmarks, nil
}

// ClassifyGaze classifies gaze from the cached landmarks of the current frame.
func (v *Vision) ClassifyGaze(jpeg []byte) (GazeResult, error) {
	face, width, err := v.frameFace(jpeg)
	if err != nil {
		return GazeResult{Status: GazeFailed, Offset: 1.0}, err
	}
	if face == nil {
		return GazeResult{Status: GazeNotDetected, Offset: 1.0}, nil
	}

	offset, ok := gazeOffset(face.Landmarks, width)
	if !ok {
		return GazeResult{Status: GazeNotDetected, Offset: 1.0}, ErrNoLandmarks
	}

	v.mu.Lock()
	v.gazeWin.push(offset < gazeLookingThresh)
	looking := v.gazeWin.majority()
	v.mu.Unlock()

	return GazeResult{Status: classifyGazeOffset(looking, offset), Offset: offset}, nil
}

// ClassifyPose classifies head pose from the cached landmarks.
func (v *Vision) ClassifyPose(jpeg []byte) (PoseResult, error) {
	face, _, err := v.frameFace(jpeg)
	if err != nil {
		return PoseResult{Status: PoseFailed}, err
	}
	if face == nil {
		return PoseResult{Status: PoseNotDetected}, nil
	}

	raw := classifyPose(face.Landmarks)

	v.mu.Lock()
	v.poseWin.push(raw.Status)
	smoothed := v.poseWin.modal()
	v.mu.Unlock()

	return PoseResult{Status: smoothed, Angle: raw.Angle}, nil
}

// ClassifyGesture looks for self-touch gestures: skin-colored hand blobs
// outside the face box, positioned against the face center.
func (v *Vision) ClassifyGesture(jpeg []byte) (GestureResult, error) {
	face, _, err := v.frameFace(jpeg)
	if err != nil {
		return GestureResult{Status: GestureFailed}, err
	}
	if face == nil {
		return GestureResult{Status: GestureNotDetected}, nil
	}

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil || img.Empty() {
		if err == nil {
			img.Close()
			err = ErrEmptyFrame
		}
		return GestureResult{Status: GestureFailed}, WrapError("gesture", err)
	}
	defer img.Close()

	raw, conf := detectHandGesture(img, *face)

	v.mu.Lock()
	v.gestureWin.push(raw)
	smoothed := v.gestureWin.modal()
	v.mu.Unlock()

	return GestureResult{Status: smoothed, Confidence: conf}, nil
}

// Close releases the underlying model.
func (v *Vision) Close() error {
	return v.net.close()
}

// frameFace returns the cached face for this frame, re-running detection if
// the classify call arrives for a frame DetectFace has not seen.
func (v *Vision) frameFace(jpeg []byte) (*Face, int, error) {
	key := frameKey(jpeg)

	v.mu.Lock()
	if v.lastFrame.key == key {
		face, width := v.lastFrame.face, v.lastFrame.width
		v.mu.Unlock()
		return face, width, nil
	}
	v.mu.Unlock()

	if _, _, err := v.DetectFace(jpeg); err != nil {
		return nil, 0, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastFrame.face, v.lastFrame.width, nil
}

// frameKey identifies a frame cheaply: length plus a few sampled bytes.
// Consecutive camera frames virtually never collide on this.
func frameKey(jpeg []byte) string {
	n := len(jpeg)
	if n < 16 {
		return string(jpeg)
	}
	return strconv.Itoa(n) + ":" + string(jpeg[:8]) + string(jpeg[n-8:])
}
