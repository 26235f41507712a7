// Interview coach service: webcam attention monitoring with spoken feedback
// and a live web dashboard.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/coachcam/go-coach/internal/config"
	"github.com/coachcam/go-coach/internal/log"
	"github.com/coachcam/go-coach/pkg/audio"
	"github.com/coachcam/go-coach/pkg/camera"
	"github.com/coachcam/go-coach/pkg/coach"
	"github.com/coachcam/go-coach/pkg/detect"
	"github.com/coachcam/go-coach/pkg/feedback"
	"github.com/coachcam/go-coach/pkg/questions"
	"github.com/coachcam/go-coach/pkg/session"
	"github.com/coachcam/go-coach/pkg/tts"
	"github.com/coachcam/go-coach/pkg/web"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "coach",
	Short:        "Interview attention coach with live webcam analysis",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coaching service and dashboard",
	RunE:  runServe,
}

var voiceTestCmd = &cobra.Command{
	Use:   "voice-test",
	Short: "Synthesize and play the voice test line, then exit",
	RunE:  runVoiceTest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.AddCommand(serveCmd, voiceTestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	// .env is optional; real deployments export variables directly.
	godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	// The conventional provider variable names win over nothing, not over
	// explicit COACH_* settings.
	if cfg.ElevenLabsKey == "" {
		cfg.ElevenLabsKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)
	logger := log.L()

	provider, speechLive := buildProvider(cfg)
	defer provider.Close()

	var player audio.Player = audio.NewFFPlay()
	if !speechLive {
		player = audio.Discard{}
	}

	pools := loadPools(cfg)
	gate := feedback.NewGate(provider, player, logger,
		feedback.WithPools(pools),
		feedback.WithTTSTimeout(cfg.TTSTimeout))

	detector, source, cam := buildVision(cfg)
	defer detector.Close()
	defer source.Close()

	sess := session.New()
	bank := questions.Load(cfg.QuestionFile, logger)

	c := coach.New(detector, source, gate, sess, bank, logger,
		coach.WithDetectEvery(cfg.DetectEvery),
		coach.WithFPS(cfg.CameraFPS))

	srv := web.NewServer(cfg.Port, c, cam, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go c.Run(ctx)
	srv.StartAsync()

	logger.Info("coach service running", "port", cfg.Port, "simulated", cam == nil)
	<-ctx.Done()

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.Warn("web shutdown", "error", err)
	}
	return nil
}

func runVoiceTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)
	logger := log.L()

	provider, live := buildProvider(cfg)
	defer provider.Close()
	if !live {
		return fmt.Errorf("no TTS API key configured")
	}

	gate := feedback.NewGate(provider, audio.NewFFPlay(), logger,
		feedback.WithPools(loadPools(cfg)),
		feedback.WithTTSTimeout(cfg.TTSTimeout))

	if !gate.VoiceTest() {
		return fmt.Errorf("voice test failed, see log for details")
	}
	return nil
}

// buildProvider assembles the synthesis chain: ElevenLabs first, OpenAI as
// fallback, a silent mock when no key is configured. The second return says
// whether real speech is available.
func buildProvider(cfg config.Config) (tts.Provider, bool) {
	logger := log.L()
	var providers []tts.Provider

	if cfg.ElevenLabsKey != "" {
		voice := cfg.ElevenLabsVoice
		if voice == "" {
			voice = tts.DefaultElevenLabsVoice
		}
		el, err := tts.NewElevenLabs(
			tts.WithAPIKey(cfg.ElevenLabsKey),
			tts.WithVoice(tts.ResolveElevenLabsVoice(voice)),
			tts.WithSpeed(cfg.SpeechRate),
			tts.WithTimeout(cfg.TTSTimeout),
			tts.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("elevenlabs unavailable", "error", err)
		} else {
			providers = append(providers, el)
		}
	}

	if cfg.OpenAIKey != "" {
		oa, err := tts.NewOpenAI(
			tts.WithAPIKey(cfg.OpenAIKey),
			tts.WithSpeed(cfg.SpeechRate),
			tts.WithTimeout(cfg.TTSTimeout),
			tts.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("openai tts unavailable", "error", err)
		} else {
			providers = append(providers, oa)
		}
	}

	switch len(providers) {
	case 0:
		logger.Warn("no TTS API keys configured, speech disabled")
		return tts.NewMock(), false
	case 1:
		return providers[0], true
	default:
		chain, err := tts.NewChain(providers...)
		if err != nil {
			return providers[0], true
		}
		return chain, true
	}
}

// buildVision picks the detection pipeline. A live camera plus the YuNet
// model gives real detection; if either is missing the service degrades to
// the simulated detector over a synthetic frame, same as --simulate.
func buildVision(cfg config.Config) (detect.Detector, camera.Source, *camera.Manager) {
	logger := log.L()

	simulated := func(reason string, err error) (detect.Detector, camera.Source, *camera.Manager) {
		if reason != "" {
			logger.Warn("falling back to simulated detection", "reason", reason, "error", err)
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return detect.NewSim(rng), camera.NewSynthetic(), nil
	}

	if cfg.Simulate {
		logger.Info("simulation mode enabled")
		return simulated("", nil)
	}

	yunetCfg := detect.DefaultYuNetConfig()
	yunetCfg.ModelPath = cfg.FaceModel
	vision, err := detect.NewVision(yunetCfg, logger)
	if err != nil {
		return simulated("face model unavailable", err)
	}

	cam := camera.NewManager(camera.Config{
		DeviceID:  cfg.CameraID,
		Width:     cfg.CameraWidth,
		Height:    cfg.CameraHeight,
		Framerate: cfg.CameraFPS,
		Quality:   85,
	}, logger)
	if err := cam.Open(); err != nil {
		vision.Close()
		return simulated("camera unavailable", err)
	}
	// Give the sensor a moment to warm up so the first detection cycles
	// and the dashboard preview are not all misses.
	if _, err := cam.WaitForFrame(2 * time.Second); err != nil {
		logger.Warn("camera opened but not delivering frames yet", "error", err)
	}

	return vision, cam, cam
}

// loadPools reads the optional phrase pool file, falling back to the
// built-in English phrases.
func loadPools(cfg config.Config) feedback.Pools {
	if cfg.PhraseFile == "" {
		return feedback.DefaultPools()
	}
	pools, err := feedback.LoadPools(cfg.PhraseFile)
	if err != nil {
		log.Warn("phrase file unusable, using built-in phrases",
			"path", cfg.PhraseFile, "error", err)
		return feedback.DefaultPools()
	}
	return pools
}
