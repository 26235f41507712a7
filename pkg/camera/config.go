// Package camera captures webcam frames as JPEG and keeps the latest frame
// available to the processing loop and the web dashboard.
package camera

import "fmt"

// Config holds the capture parameters. Resolution and quality can be changed
// at runtime via the camera API.
type Config struct {
	// DeviceID is the V4L2 / system camera index.
	DeviceID int `json:"device_id"`

	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// DefaultConfig returns the recommended capture configuration. 720p keeps
// face landmarks precise enough for gaze work without saturating encode time.
func DefaultConfig() Config {
	return Config{
		DeviceID:  0,
		Width:     1280,
		Height:    720,
		Framerate: 30,
		Quality:   85,
	}
}

// Validate checks the configuration and returns a list of problems.
func (c Config) Validate() []string {
	var errors []string

	if c.DeviceID < 0 {
		errors = append(errors, fmt.Sprintf("device_id must be >= 0, got %d", c.DeviceID))
	}
	if c.Width < 160 || c.Width > 4096 {
		errors = append(errors, fmt.Sprintf("width must be 160-4096, got %d", c.Width))
	}
	if c.Height < 120 || c.Height > 2160 {
		errors = append(errors, fmt.Sprintf("height must be 120-2160, got %d", c.Height))
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		errors = append(errors, fmt.Sprintf("framerate must be 1-120, got %d", c.Framerate))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, fmt.Sprintf("quality must be 1-100, got %d", c.Quality))
	}

	return errors
}
