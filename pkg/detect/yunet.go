package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YuNetConfig holds face detector configuration.
type YuNetConfig struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultYuNetConfig returns production defaults for YuNet.
func DefaultYuNetConfig() YuNetConfig {
	return YuNetConfig{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// Face is a detected face with its five landmarks in pixel coordinates:
// right eye, left eye, nose tip, right mouth corner, left mouth corner.
type Face struct {
	X, Y, W, H float64 // bounding box in pixels
	Landmarks  []Landmark
	Confidence float64
}

// yuNet wraps OpenCV's FaceDetectorYN for single-frame face detection.
// It is the landmark source for the Vision detector.
type yuNet struct {
	detector gocv.FaceDetectorYN
	config   YuNetConfig
	mu       sync.Mutex // protects inference
}

func newYuNet(cfg YuNetConfig) (*yuNet, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, WrapError("yunet", fmt.Errorf("%w: %s", ErrNoModel, cfg.ModelPath))
	}

	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"", // no config file needed for ONNX
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &yuNet{detector: detector, config: cfg}, nil
}

// detect finds faces in the JPEG frame. Frame dimensions are returned so
// callers can normalize landmark positions.
func (d *yuNet) detect(jpeg []byte) ([]Face, int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, 0, 0, WrapError("yunet", fmt.Errorf("decode frame: %w", err))
	}
	defer img.Close()

	if img.Empty() {
		return nil, 0, 0, WrapError("yunet", ErrEmptyFrame)
	}

	w, h := img.Cols(), img.Rows()
	d.detector.SetInputSize(image.Pt(w, h))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(img, &faces)

	// YuNet output (15 columns per row): bbox x,y,w,h; five landmark
	// x,y pairs; face score.
	var out []Face
	for r := 0; r < faces.Rows(); r++ {
		f := Face{
			X:          float64(faces.GetFloatAt(r, 0)),
			Y:          float64(faces.GetFloatAt(r, 1)),
			W:          float64(faces.GetFloatAt(r, 2)),
			H:          float64(faces.GetFloatAt(r, 3)),
			Confidence: float64(faces.GetFloatAt(r, 14)),
		}
		for i := 0; i < 5; i++ {
			f.Landmarks = append(f.Landmarks, Landmark{
				X: float64(faces.GetFloatAt(r, 4+i*2)),
				Y: float64(faces.GetFloatAt(r, 5+i*2)),
			})
		}
		out = append(out, f)
	}

	return out, w, h, nil
}

// bestFace picks the most prominent face when several are visible.
// Confidence dominates; area breaks near-ties.
func bestFace(faces []Face) *Face {
	if len(faces) == 0 {
		return nil
	}
	maxArea := 0.0
	for _, f := range faces {
		if a := f.W * f.H; a > maxArea {
			maxArea = a
		}
	}
	best := &faces[0]
	bestScore := -1.0
	for i := range faces {
		score := faces[i].Confidence * 0.7
		if maxArea > 0 {
			score += (faces[i].W * faces[i].H / maxArea) * 0.3
		}
		if score > bestScore {
			bestScore = score
			best = &faces[i]
		}
	}
	return best
}

func (d *yuNet) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}
