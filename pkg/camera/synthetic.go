package camera

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

// Synthetic is a Source that serves a single generated frame. It stands in
// for the webcam when running in simulation mode so the video feed and
// snapshot endpoints still have something to serve.
type Synthetic struct {
	once  sync.Once
	frame []byte
	err   error
}

// NewSynthetic returns an empty synthetic source. The frame is rendered
// lazily on first use.
func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// Frame returns the generated placeholder frame as JPEG bytes.
func (s *Synthetic) Frame() ([]byte, error) {
	s.once.Do(s.render)
	if s.err != nil {
		return nil, s.err
	}
	frame := make([]byte, len(s.frame))
	copy(frame, s.frame)
	return frame, nil
}

func (s *Synthetic) render() {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0),
		480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	// Rough head-and-shoulders silhouette so the dashboard preview is not
	// just a grey rectangle.
	face := color.RGBA{R: 90, G: 90, B: 110}
	gocv.Circle(&img, image.Pt(320, 200), 80, face, -1)
	gocv.Ellipse(&img, image.Pt(320, 430), image.Pt(160, 120), 0, 180, 360, face, -1)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		s.err = fmt.Errorf("render synthetic frame: %w", err)
		return
	}
	defer buf.Close()

	s.frame = make([]byte, len(buf.GetBytes()))
	copy(s.frame, buf.GetBytes())
}

// Close is a no-op.
func (s *Synthetic) Close() error { return nil }
