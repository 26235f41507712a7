// Package audio plays synthesized speech on the local machine.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/coachcam/go-coach/pkg/tts"
)

// Player plays a synthesized audio buffer to completion.
type Player interface {
	// Play blocks until playback finishes or ctx is cancelled.
	Play(ctx context.Context, result *tts.AudioResult) error
}

// FFPlay plays audio through an ffplay subprocess. ffplay autodetects MP3;
// raw PCM needs the format spelled out on the command line.
type FFPlay struct {
	// Binary overrides the ffplay binary path (default "ffplay").
	Binary string

	// Callbacks, optional.
	OnPlaybackStart func()
	OnPlaybackEnd   func()

	mu      sync.Mutex // serializes playback
	playing atomic.Bool
}

// NewFFPlay creates a local audio player.
func NewFFPlay() *FFPlay {
	return &FFPlay{Binary: "ffplay"}
}

// Play blocks until playback finishes. Concurrent calls serialize.
func (p *FFPlay) Play(ctx context.Context, result *tts.AudioResult) error {
	if result == nil || len(result.Audio) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing.Store(true)
	defer p.playing.Store(false)

	args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
	switch result.Format.Encoding {
	case tts.EncodingPCM16, tts.EncodingPCM24:
		args = append(args,
			"-f", "s16le",
			"-ar", fmt.Sprintf("%d", result.Format.SampleRate),
			"-ch_layout", "mono",
		)
	}
	args = append(args, "-i", "-")

	cmd := exec.CommandContext(ctx, p.Binary, args...)
	cmd.Stdin = bytes.NewReader(result.Audio)

	if p.OnPlaybackStart != nil {
		p.OnPlaybackStart()
	}
	err := cmd.Run()
	if p.OnPlaybackEnd != nil {
		p.OnPlaybackEnd()
	}

	if err != nil {
		return fmt.Errorf("audio: playback: %w", err)
	}
	return nil
}

// Playing reports whether playback is in progress. It is safe to call
// from other goroutines while Play blocks.
func (p *FFPlay) Playing() bool {
	return p.playing.Load()
}

// Discard is a Player that swallows audio. Useful in tests and headless
// deployments where the dashboard is the only feedback surface.
type Discard struct{}

// Play implements Player.
func (Discard) Play(context.Context, *tts.AudioResult) error { return nil }

var (
	_ Player = (*FFPlay)(nil)
	_ Player = Discard{}
)
