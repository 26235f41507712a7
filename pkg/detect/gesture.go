package detect

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// Gesture geometry, as fractions of the face box width so the thresholds
// hold at any capture resolution. A hand blob whose center lands within
// gestureNearFace of the face center is touching the face or chin; one
// sitting above the face within the same horizontal band is in the hair;
// one level with the face but off to the side is a propped chin.
const (
	gestureNearFace  = 0.75
	gestureAboveFace = 0.40

	// Candidate hand blobs smaller than this fraction of the face area
	// are noise, not hands.
	gestureMinHandArea = 0.20
)

// Skin tone bounds in YCrCb. The Y channel is left open so lighting does
// not gate the segmentation.
var (
	skinLower = gocv.NewScalar(0, 133, 77, 0)
	skinUpper = gocv.NewScalar(255, 173, 127, 0)
)

// classifyHandGesture maps a hand center onto a gesture status given the
// face center and the face box width.
func classifyHandGesture(hand image.Point, faceCX, faceCY, faceW float64) (GestureStatus, float64) {
	if faceW <= 0 {
		return GestureNone, 0
	}

	dx := float64(hand.X) - faceCX
	dy := float64(hand.Y) - faceCY
	near := gestureNearFace * faceW
	above := gestureAboveFace * faceW

	switch {
	case math.Hypot(dx, dy) < near:
		if dy > 0 {
			return GestureTouchChin, 0.8
		}
		return GestureTouchFace, 0.8
	case dy < -above && math.Abs(dx) < near:
		return GestureTouchHair, 0.7
	case math.Abs(dy) < above && math.Abs(dx) > near:
		return GestureRestChin, 0.7
	}
	return GestureNone, 0
}

// detectHandGesture segments skin-colored regions outside the face box and
// classifies each candidate hand against the face geometry, keeping the
// most confident result. The face itself is skin, so its (slightly grown)
// box is blanked from the mask; a hand overlapping the face still shows up
// as a blob hugging the box border, which the near-face band catches.
func detectHandGesture(img gocv.Mat, face Face) (GestureStatus, float64) {
	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	gocv.CvtColor(img, &ycrcb, gocv.ColorBGRToYCrCb)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(ycrcb, skinLower, skinUpper, &mask)

	grow := int(face.W * 0.2)
	faceRect := image.Rect(
		int(face.X)-grow, int(face.Y)-grow,
		int(face.X+face.W)+grow, int(face.Y+face.H)+grow,
	)
	gocv.Rectangle(&mask, faceRect, color.RGBA{}, -1)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(7, 7))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	faceCX := face.X + face.W/2
	faceCY := face.Y + face.H/2
	minArea := gestureMinHandArea * face.W * face.H

	status, confidence := GestureNone, 0.0
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		if gocv.ContourArea(c) < minArea {
			continue
		}
		r := gocv.BoundingRect(c)
		center := image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)

		if s, conf := classifyHandGesture(center, faceCX, faceCY, face.W); conf > confidence {
			status, confidence = s, conf
		}
	}
	return status, confidence
}

// gestureWindow smooths gesture statuses by taking the modal value of the
// last smoothWindow samples, ties resolving to the most recent.
type gestureWindow struct {
	samples []GestureStatus
}

func (w *gestureWindow) push(s GestureStatus) {
	w.samples = append(w.samples, s)
	if len(w.samples) > smoothWindow {
		w.samples = w.samples[1:]
	}
}

func (w *gestureWindow) modal() GestureStatus {
	if len(w.samples) == 0 {
		return GestureNone
	}
	counts := make(map[GestureStatus]int, len(w.samples))
	for _, s := range w.samples {
		counts[s]++
	}
	best := w.samples[len(w.samples)-1]
	bestN := 0
	for i := len(w.samples) - 1; i >= 0; i-- {
		if counts[w.samples[i]] > bestN {
			best = w.samples[i]
			bestN = counts[w.samples[i]]
		}
	}
	return best
}
