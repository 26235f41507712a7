// Package config loads go-coach configuration from file, environment,
// and defaults, in that order of increasing precedence for env overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the coach service.
type Config struct {
	// Server
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// Camera
	CameraID     int `mapstructure:"camera_id"`
	CameraWidth  int `mapstructure:"camera_width"`
	CameraHeight int `mapstructure:"camera_height"`
	CameraFPS    int `mapstructure:"camera_fps"`

	// Detection
	DetectEvery int    `mapstructure:"detect_every"` // run detectors every Nth frame
	FaceModel   string `mapstructure:"face_model"`   // path to YuNet ONNX model
	Simulate    bool   `mapstructure:"simulate"`     // force simulated detection

	// Voice
	ElevenLabsKey   string  `mapstructure:"elevenlabs_key"`
	ElevenLabsVoice string  `mapstructure:"elevenlabs_voice"`
	OpenAIKey       string  `mapstructure:"openai_key"`
	SpeechRate      float64 `mapstructure:"speech_rate"`
	PhraseFile      string  `mapstructure:"phrase_file"` // optional YAML phrase pools

	// Questions
	QuestionFile string `mapstructure:"question_file"`

	// Timeouts
	TTSTimeout time.Duration `mapstructure:"tts_timeout"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Port:         "5000",
		LogLevel:     "info",
		CameraID:     0,
		CameraWidth:  640,
		CameraHeight: 480,
		CameraFPS:    30,
		DetectEvery:  5,
		FaceModel:    "models/face_detection_yunet.onnx",
		SpeechRate:   1.0,
		QuestionFile: "data/interview_questions.json",
		TTSTimeout:   15 * time.Second,
	}
}

// Load reads configuration from the given file (optional) and COACH_*
// environment variables. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("port", def.Port)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("camera_id", def.CameraID)
	v.SetDefault("camera_width", def.CameraWidth)
	v.SetDefault("camera_height", def.CameraHeight)
	v.SetDefault("camera_fps", def.CameraFPS)
	v.SetDefault("detect_every", def.DetectEvery)
	v.SetDefault("face_model", def.FaceModel)
	v.SetDefault("simulate", false)
	v.SetDefault("speech_rate", def.SpeechRate)
	v.SetDefault("question_file", def.QuestionFile)
	v.SetDefault("tts_timeout", def.TTSTimeout)

	v.SetEnvPrefix("COACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges that would otherwise fail deep inside a
// component at an awkward time.
func (c Config) Validate() error {
	if c.CameraWidth < 160 || c.CameraHeight < 120 {
		return fmt.Errorf("camera resolution %dx%d too small", c.CameraWidth, c.CameraHeight)
	}
	if c.CameraFPS < 1 || c.CameraFPS > 120 {
		return fmt.Errorf("camera fps %d out of range", c.CameraFPS)
	}
	if c.DetectEvery < 1 {
		return fmt.Errorf("detect_every must be at least 1")
	}
	return nil
}
