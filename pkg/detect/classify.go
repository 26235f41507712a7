package detect

import "math"

// Gaze offset bands, as fractions of half the frame width.
const (
	gazeLookingThresh  = 0.15 // below this the subject is looking at the camera
	gazeSlightThresh   = 0.30
	gazeModerateThresh = 0.50
)

// Head pose thresholds. Offsets are normalized by the inter-eye span so the
// classification is independent of face size in the frame.
const (
	poseTiltDeg      = 15.0
	poseTiltCombined = 10.0 // tilt threshold when vertical offset is also present
	poseVerticalLow  = 0.45 // nose sits higher than this ratio: head up
	poseVerticalHigh = 0.95 // nose sits lower than this ratio: head down
	poseTurnThresh   = 0.25
	smoothWindow     = 5
	gazeLookingShare = 0.6
)

// classifyGazeOffset maps a raw eye-center offset to a gaze band.
// isLooking reflects the smoothed looking state, not the instantaneous one.
func classifyGazeOffset(isLooking bool, offset float64) GazeStatus {
	switch {
	case isLooking:
		return GazeNormal
	case offset < gazeSlightThresh:
		return GazeSlightOffset
	case offset < gazeModerateThresh:
		return GazeModerateOffset
	default:
		return GazeSevereOffset
	}
}

// gazeOffset computes the eye-center horizontal offset as a fraction of
// half the frame width. Landmarks follow YuNet order: right eye, left eye,
// nose, right mouth corner, left mouth corner.
func gazeOffset(landmarks []Landmark, frameWidth int) (float64, bool) {
	if len(landmarks) < 2 || frameWidth <= 0 {
		return 1.0, false
	}
	eyeCenterX := (landmarks[0].X + landmarks[1].X) / 2
	half := float64(frameWidth) / 2
	return math.Abs(eyeCenterX-half) / half, true
}

// classifyPose evaluates head pose from the five YuNet landmarks.
func classifyPose(landmarks []Landmark) PoseResult {
	if len(landmarks) < 3 {
		return PoseResult{Status: PoseNotDetected}
	}

	rightEye, leftEye, nose := landmarks[0], landmarks[1], landmarks[2]

	eyeSpan := math.Hypot(leftEye.X-rightEye.X, leftEye.Y-rightEye.Y)
	if eyeSpan < 1 {
		return PoseResult{Status: PoseNotDetected}
	}

	angle := math.Atan2(leftEye.Y-rightEye.Y, leftEye.X-rightEye.X) * 180 / math.Pi
	eyeCenterX := (rightEye.X + leftEye.X) / 2
	eyeCenterY := (rightEye.Y + leftEye.Y) / 2

	vertical := (nose.Y - eyeCenterY) / eyeSpan
	horizontal := math.Abs(nose.X-eyeCenterX) / eyeSpan

	status := PoseGood
	switch {
	case vertical < poseVerticalLow:
		if math.Abs(angle) > poseTiltCombined {
			status = PoseTilted
		} else {
			status = PoseHeadUp
		}
	case vertical > poseVerticalHigh:
		if math.Abs(angle) > poseTiltCombined {
			status = PoseTilted
		} else {
			status = PoseHeadDown
		}
	case math.Abs(angle) > poseTiltDeg:
		status = PoseTilted
	case horizontal > poseTurnThresh:
		status = PoseTurned
	}

	return PoseResult{Status: status, Angle: angle}
}

// boolWindow smooths a boolean signal over the last smoothWindow samples.
type boolWindow struct {
	samples []bool
}

func (w *boolWindow) push(v bool) {
	w.samples = append(w.samples, v)
	if len(w.samples) > smoothWindow {
		w.samples = w.samples[1:]
	}
}

// majority reports whether the true share exceeds gazeLookingShare.
func (w *boolWindow) majority() bool {
	if len(w.samples) == 0 {
		return false
	}
	var t int
	for _, v := range w.samples {
		if v {
			t++
		}
	}
	return float64(t)/float64(len(w.samples)) > gazeLookingShare
}

// poseWindow smooths pose statuses by taking the modal value of the last
// smoothWindow samples.
type poseWindow struct {
	samples []PoseStatus
}

func (w *poseWindow) push(s PoseStatus) {
	w.samples = append(w.samples, s)
	if len(w.samples) > smoothWindow {
		w.samples = w.samples[1:]
	}
}

func (w *poseWindow) modal() PoseStatus {
	if len(w.samples) == 0 {
		return PoseNotDetected
	}
	counts := make(map[PoseStatus]int, len(w.samples))
	best := w.samples[len(w.samples)-1]
	bestN := 0
	for _, s := range w.samples {
		counts[s]++
	}
	// Iterate the window rather than the map so ties resolve to the most
	// recent status deterministically.
	for i := len(w.samples) - 1; i >= 0; i-- {
		if counts[w.samples[i]] > bestN {
			best = w.samples[i]
			bestN = counts[w.samples[i]]
		}
	}
	return best
}
