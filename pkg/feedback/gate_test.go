package feedback

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/coachcam/go-coach/pkg/audio"
	"github.com/coachcam/go-coach/pkg/detect"
	"github.com/coachcam/go-coach/pkg/tts"
)

// testGate builds a gate over a mock provider with a controllable clock.
func testGate(t *testing.T, provider tts.Provider) (*Gate, *time.Time) {
	t.Helper()
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := NewGate(provider, audio.Discard{}, slog.Default(),
		WithClock(func() time.Time { return current }),
		WithRand(rand.New(rand.NewSource(1))))
	return g, &current
}

func TestSpeak_CooldownGating(t *testing.T) {
	g, clock := testGate(t, tts.NewMock())

	if !g.Speak("sit up straight", false) {
		t.Fatal("first utterance should speak")
	}
	if g.Speak("look at the camera", false) {
		t.Error("second utterance inside the cooldown should be suppressed")
	}

	*clock = clock.Add(DefaultCooldown - time.Second)
	if g.Speak("look at the camera", false) {
		t.Error("still inside the 4s window")
	}

	*clock = clock.Add(2 * time.Second)
	if !g.Speak("look at the camera", false) {
		t.Error("past the cooldown the gate should speak")
	}
}

func TestSpeak_UrgentUsesShorterWindow(t *testing.T) {
	g, clock := testGate(t, tts.NewMock())

	if !g.Speak("warmup", false) {
		t.Fatal("first utterance should speak")
	}

	*clock = clock.Add(UrgentCooldown + time.Millisecond)
	if g.Speak("relaxed reminder", false) {
		t.Error("normal prompt should still be gated at 2s")
	}
	if !g.Speak("face the camera now", true) {
		t.Error("urgent prompt should pass after 2s")
	}
}

func TestSpeak_FailedSynthesisKeepsCooldownOpen(t *testing.T) {
	g, _ := testGate(t, tts.WithError(errors.New("service down")))

	if g.Speak("hello", false) {
		t.Fatal("failed synthesis must report not spoken")
	}
	if g.Latest() != "" {
		t.Errorf("failed utterance must not enter the event history, got %q", g.Latest())
	}

	// The clock never advanced; the failed attempt must not have consumed
	// the cooldown window.
	g.provider = tts.NewMock()
	if !g.Speak("hello again", false) {
		t.Error("cooldown should still be open after a failed attempt")
	}
}

func TestSpeak_FailedPlaybackNotRecorded(t *testing.T) {
	failingPlayer := playerFunc(func(context.Context, *tts.AudioResult) error {
		return errors.New("no audio device")
	})
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := NewGate(tts.NewMock(), failingPlayer, slog.Default(),
		WithClock(func() time.Time { return current }))

	if g.Speak("hello", false) {
		t.Error("failed playback must report not spoken")
	}
	if g.Latest() != "" {
		t.Errorf("failed utterance must not enter the event history, got %q", g.Latest())
	}
}

// playerFunc adapts a function to audio.Player.
type playerFunc func(context.Context, *tts.AudioResult) error

func (f playerFunc) Play(ctx context.Context, r *tts.AudioResult) error { return f(ctx, r) }

func TestEventHistoryBound(t *testing.T) {
	g, clock := testGate(t, tts.NewMock())

	for i := 0; i < MaxEvents+5; i++ {
		if !g.Speak("line", false) {
			t.Fatalf("utterance %d suppressed unexpectedly", i)
		}
		*clock = clock.Add(DefaultCooldown + time.Second)
	}

	events := g.Events()
	if len(events) != MaxEvents {
		t.Errorf("event history length = %d, want %d", len(events), MaxEvents)
	}
}

func TestCountSince(t *testing.T) {
	g, clock := testGate(t, tts.NewMock())

	g.Speak("old", true)
	*clock = clock.Add(10 * time.Minute)
	g.Speak("recent normal", false)
	*clock = clock.Add(5 * time.Second)
	g.Speak("recent urgent", true)

	c := g.CountSince(time.Minute)
	if c.Total != 2 || c.Urgent != 1 || c.Normal != 1 {
		t.Errorf("counts = %+v, want total 2, urgent 1, normal 1", c)
	}
}

func TestCategoryHelpers(t *testing.T) {
	g, clock := testGate(t, tts.NewMock())

	if !g.FaceMissing() {
		t.Error("face missing prompt should speak")
	}
	*clock = clock.Add(time.Minute)

	if !g.PoseFeedback(detect.PoseHeadDown, false) {
		t.Error("pose prompt should speak")
	}
	if g.Latest() != DefaultPools().Pose[detect.PoseHeadDown] {
		t.Errorf("unexpected pose phrase %q", g.Latest())
	}
	*clock = clock.Add(time.Minute)

	if !g.GestureFeedback(detect.GestureTouchChin, false) {
		t.Error("gesture prompt should speak")
	}
	*clock = clock.Add(time.Minute)

	if !g.GazeFeedback(false) {
		t.Error("gaze prompt should speak")
	}
}

func TestSharedCooldownAcrossCategories(t *testing.T) {
	g, _ := testGate(t, tts.NewMock())

	if !g.GazeFeedback(false) {
		t.Fatal("gaze prompt should speak")
	}
	if g.PoseFeedback(detect.PoseTilted, false) {
		t.Error("a pose prompt right after a gaze prompt must be suppressed; the cooldown clock is shared")
	}
}

func TestAskQuestion_BypassesCooldown(t *testing.T) {
	g, _ := testGate(t, tts.NewMock())
	defer g.CancelPending()

	g.Speak("feedback line", false)
	if !g.AskQuestion("Tell me about yourself", "Python Developer") {
		t.Error("question announcements must ignore the cooldown")
	}

	want := "Python Developer interview question: Tell me about yourself, you have 5 minutes to answer"
	if g.Latest() != want {
		t.Errorf("announcement = %q, want %q", g.Latest(), want)
	}
}

func TestAskQuestion_SchedulesAndCancelsFollowup(t *testing.T) {
	g, _ := testGate(t, tts.NewMock())

	g.AskQuestion("first", "General")
	g.timerMu.Lock()
	first := g.qTimer
	g.timerMu.Unlock()
	if first == nil {
		t.Fatal("a follow-up timer should be pending")
	}

	// A new question replaces the pending follow-up.
	g.AskQuestion("second", "General")
	g.timerMu.Lock()
	second := g.qTimer
	g.timerMu.Unlock()
	if second == first {
		t.Error("asking again should schedule a fresh timer")
	}

	g.CancelPending()
	g.timerMu.Lock()
	if g.qTimer != nil {
		t.Error("CancelPending should clear the timer")
	}
	g.timerMu.Unlock()
}

func TestVoiceTest_IgnoresCooldown(t *testing.T) {
	g, _ := testGate(t, tts.NewMock())

	g.Speak("anything", false)
	if !g.VoiceTest() {
		t.Error("the voice test must always attempt to speak")
	}
}
