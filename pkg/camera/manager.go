package camera

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Source delivers the most recent camera frame as JPEG bytes.
type Source interface {
	Frame() ([]byte, error)
	Close() error
}

// Manager owns the webcam, runs the capture loop, and holds the current
// capture configuration. Frames are pulled by the processing loop and by the
// MJPEG feed, so the loop always overwrites the latest frame rather than
// queueing.
type Manager struct {
	config Config
	mu     sync.RWMutex

	logger *slog.Logger

	cap   *gocv.VideoCapture
	capMu sync.Mutex

	latest  []byte
	frameMu sync.RWMutex

	done chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a camera manager with the given configuration. The
// device is not opened until Open is called.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		config: cfg,
		logger: logger.With("component", "camera"),
		done:   make(chan struct{}),
	}
}

// Open opens the capture device and starts the background capture loop.
func (m *Manager) Open() error {
	cfg := m.GetConfig()

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", cfg.DeviceID, err)
	}

	m.capMu.Lock()
	m.cap = cap
	m.applyProps(cfg)
	m.capMu.Unlock()

	m.logger.Info("camera opened",
		"device", cfg.DeviceID,
		"width", cfg.Width,
		"height", cfg.Height,
		"fps", cfg.Framerate)

	m.wg.Add(1)
	go m.captureLoop()
	return nil
}

// applyProps pushes the resolution and framerate to the device. Caller holds
// capMu.
func (m *Manager) applyProps(cfg Config) {
	if m.cap == nil {
		return
	}
	m.cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	m.cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	m.cap.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
}

func (m *Manager) captureLoop() {
	defer m.wg.Done()

	img := gocv.NewMat()
	defer img.Close()

	failures := 0
	for {
		select {
		case <-m.done:
			return
		default:
		}

		m.capMu.Lock()
		cap := m.cap
		m.capMu.Unlock()
		if cap == nil {
			return
		}

		if ok := cap.Read(&img); !ok || img.Empty() {
			failures++
			if failures >= 30 {
				m.logger.Warn("camera read failing, reopening device", "failures", failures)
				m.reopen()
				failures = 0
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		failures = 0

		cfg := m.GetConfig()
		buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
			[]int{gocv.IMWriteJpegQuality, cfg.Quality})
		if err != nil {
			m.logger.Warn("jpeg encode failed", "error", err)
			continue
		}

		frame := make([]byte, len(buf.GetBytes()))
		copy(frame, buf.GetBytes())
		buf.Close()

		m.frameMu.Lock()
		m.latest = frame
		m.frameMu.Unlock()
	}
}

// reopen closes and reopens the capture device after persistent read
// failures (camera unplugged, driver reset).
func (m *Manager) reopen() {
	cfg := m.GetConfig()

	m.capMu.Lock()
	defer m.capMu.Unlock()

	if m.cap != nil {
		m.cap.Close()
		m.cap = nil
	}

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		m.logger.Error("camera reopen failed", "device", cfg.DeviceID, "error", err)
		return
	}
	m.cap = cap
	m.applyProps(cfg)
	m.logger.Info("camera reopened", "device", cfg.DeviceID)
}

// Frame returns a copy of the latest captured frame as JPEG bytes.
func (m *Manager) Frame() ([]byte, error) {
	m.frameMu.RLock()
	defer m.frameMu.RUnlock()

	if m.latest == nil {
		return nil, fmt.Errorf("no frame available")
	}
	frame := make([]byte, len(m.latest))
	copy(frame, m.latest)
	return frame, nil
}

// WaitForFrame polls until a frame is available or the timeout expires.
// Useful right after Open while the sensor warms up.
func (m *Manager) WaitForFrame(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		frame, err := m.Frame()
		if err == nil {
			return frame, nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil, fmt.Errorf("timeout waiting for camera frame")
}

// GetConfig returns the current capture configuration.
func (m *Manager) GetConfig() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig validates and applies a new capture configuration.
func (m *Manager) SetConfig(cfg Config) error {
	if errors := cfg.Validate(); len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.capMu.Lock()
	m.applyProps(cfg)
	m.capMu.Unlock()

	return nil
}

// UpdateConfig updates specific fields of the configuration from a map of
// field names to values, as posted by the camera API. A "preset" key resets
// the whole config before individual overrides apply.
func (m *Manager) UpdateConfig(params map[string]interface{}) error {
	cfg := m.GetConfig()

	if presetName, ok := params["preset"].(string); ok {
		preset := GetPreset(presetName)
		if preset == nil {
			return fmt.Errorf("unknown preset: %s", presetName)
		}
		device := cfg.DeviceID
		cfg = *preset
		cfg.DeviceID = device
		delete(params, "preset")
	}

	for key, value := range params {
		switch key {
		case "device_id":
			if v, ok := toInt(value); ok {
				cfg.DeviceID = v
			}
		case "width":
			if v, ok := toInt(value); ok {
				cfg.Width = v
			}
		case "height":
			if v, ok := toInt(value); ok {
				cfg.Height = v
			}
		case "framerate":
			if v, ok := toInt(value); ok {
				cfg.Framerate = v
			}
		case "quality":
			if v, ok := toInt(value); ok {
				cfg.Quality = v
			}
		}
	}

	return m.SetConfig(cfg)
}

// GetConfigJSON returns the current config as a map for JSON serialization.
func (m *Manager) GetConfigJSON() map[string]interface{} {
	cfg := m.GetConfig()

	data, _ := json.Marshal(cfg)
	var result map[string]interface{}
	json.Unmarshal(data, &result)

	return result
}

// Close stops the capture loop and releases the device.
func (m *Manager) Close() error {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.wg.Wait()

	m.capMu.Lock()
	defer m.capMu.Unlock()
	if m.cap != nil {
		err := m.cap.Close()
		m.cap = nil
		return err
	}
	return nil
}

func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
