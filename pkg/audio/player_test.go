package audio

import (
	"context"
	"testing"

	"github.com/coachcam/go-coach/pkg/tts"
)

func TestFFPlay_PlayingObservableDuringPlayback(t *testing.T) {
	p := NewFFPlay()
	// A no-op binary stands in for ffplay; it ignores the arguments and
	// exits immediately.
	p.Binary = "true"

	var during bool
	p.OnPlaybackStart = func() { during = p.Playing() }

	res := &tts.AudioResult{Audio: []byte("mp3")}
	if err := p.Play(context.Background(), res); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	if !during {
		t.Error("Playing() = false during playback, want true")
	}
	if p.Playing() {
		t.Error("Playing() = true after playback finished")
	}
}

func TestFFPlay_EmptyAudioIsNoop(t *testing.T) {
	p := NewFFPlay()
	p.Binary = "definitely-not-a-binary"

	if err := p.Play(context.Background(), nil); err != nil {
		t.Errorf("nil result: %v", err)
	}
	if err := p.Play(context.Background(), &tts.AudioResult{}); err != nil {
		t.Errorf("empty audio: %v", err)
	}
}

func TestFFPlay_MissingBinary(t *testing.T) {
	p := NewFFPlay()
	p.Binary = "definitely-not-a-binary"

	err := p.Play(context.Background(), &tts.AudioResult{Audio: []byte("x")})
	if err == nil {
		t.Fatal("expected an error for a missing player binary")
	}
	if p.Playing() {
		t.Error("Playing() = true after a failed start")
	}
}

func TestDiscard(t *testing.T) {
	var d Discard
	if err := d.Play(context.Background(), &tts.AudioResult{Audio: []byte("x")}); err != nil {
		t.Errorf("discard errored: %v", err)
	}
}
