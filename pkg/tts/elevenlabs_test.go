package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestElevenLabs(t *testing.T, url string) *ElevenLabs {
	t.Helper()
	e, err := NewElevenLabs(
		WithAPIKey("test-key"),
		WithVoice("test-voice"),
		WithBaseURL(url),
		WithRetry(2, time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNewElevenLabs_Validation(t *testing.T) {
	if _, err := NewElevenLabs(WithVoice("v")); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("missing API key: got %v, want ErrNoAPIKey", err)
	}
	if _, err := NewElevenLabs(WithAPIKey("k")); !errors.Is(err, ErrNoVoiceID) {
		t.Errorf("missing voice: got %v, want ErrNoVoiceID", err)
	}
}

func TestElevenLabs_Synthesize(t *testing.T) {
	audio := []byte("mp3-bytes-go-here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/text-to-speech/test-voice") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Write(audio)
	}))
	defer srv.Close()

	e := newTestElevenLabs(t, srv.URL)
	result, err := e.Synthesize(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if string(result.Audio) != string(audio) {
		t.Error("audio bytes not passed through")
	}
	if result.CharCount != len("hello there") {
		t.Errorf("char count = %d", result.CharCount)
	}
	if result.Format.Encoding != EncodingMP3 {
		t.Errorf("default encoding = %v, want mp3", result.Format.Encoding)
	}
}

func TestSynthesize_SpeedInPayload(t *testing.T) {
	t.Run("elevenlabs", func(t *testing.T) {
		var got struct {
			VoiceSettings struct {
				Speed float64 `json:"speed"`
			} `json:"voice_settings"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			w.Write([]byte("audio"))
		}))
		defer srv.Close()

		e, err := NewElevenLabs(
			WithAPIKey("k"), WithVoice("v"), WithBaseURL(srv.URL),
			WithSpeed(1.15),
		)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Synthesize(context.Background(), "paced"); err != nil {
			t.Fatalf("synthesize failed: %v", err)
		}
		if got.VoiceSettings.Speed != 1.15 {
			t.Errorf("voice_settings.speed = %v, want 1.15", got.VoiceSettings.Speed)
		}
	})

	t.Run("openai", func(t *testing.T) {
		var got struct {
			Speed float64 `json:"speed"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			w.Write([]byte("audio"))
		}))
		defer srv.Close()

		o, err := NewOpenAI(WithAPIKey("k"), WithBaseURL(srv.URL), WithSpeed(0.9))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := o.Synthesize(context.Background(), "paced"); err != nil {
			t.Fatalf("synthesize failed: %v", err)
		}
		if got.Speed != 0.9 {
			t.Errorf("speed = %v, want 0.9", got.Speed)
		}
	})

	t.Run("non-positive rate keeps the default", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Apply(WithSpeed(0))
		if cfg.VoiceSettings.Speed != 1.0 {
			t.Errorf("speed = %v, want default 1.0", cfg.VoiceSettings.Speed)
		}
	})
}

func TestElevenLabs_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	e := newTestElevenLabs(t, srv.URL)
	if _, err := e.Synthesize(context.Background(), "persistent"); err != nil {
		t.Fatalf("request should have succeeded on the third attempt: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestElevenLabs_NoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	e := newTestElevenLabs(t, srv.URL)
	_, err := e.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("client errors must not be retried, got %d calls", calls)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("parsed message = %q", apiErr.Message)
	}
}

func TestElevenLabs_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("health path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := newTestElevenLabs(t, srv.URL)
	if err := e.Health(context.Background()); err != nil {
		t.Errorf("health failed: %v", err)
	}
}

func TestResolveElevenLabsVoice(t *testing.T) {
	if got := ResolveElevenLabsVoice("charlotte"); got != ElevenLabsVoices["charlotte"] {
		t.Errorf("preset not resolved: %q", got)
	}
	raw := "XB0fDUnXU5powFXDhCwa"
	if got := ResolveElevenLabsVoice(raw); got != raw {
		t.Errorf("raw voice ID should pass through, got %q", got)
	}
}

func TestNewOpenAI_DefaultVoice(t *testing.T) {
	o, err := NewOpenAI(WithAPIKey("k"))
	if err != nil {
		t.Fatal(err)
	}
	if o.config.VoiceID != VoiceNova {
		t.Errorf("default voice = %q, want %q", o.config.VoiceID, VoiceNova)
	}

	if _, err := NewOpenAI(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("missing API key: got %v, want ErrNoAPIKey", err)
	}
}

func TestEstimateDuration(t *testing.T) {
	// One second of PCM16 at 24kHz is 48000 bytes.
	d := estimateDuration(48000, EncodingPCM24)
	if d != time.Second {
		t.Errorf("PCM duration = %v, want 1s", d)
	}
}
