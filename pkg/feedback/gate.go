// Package feedback rate-limits spoken coaching feedback and delegates
// synthesis and playback to the TTS provider chain.
//
// The gate keeps one shared cooldown clock across all categories: a gaze
// reminder suppresses an imminent posture reminder and vice versa. The
// original product behaved this way, and a per-category cadence would
// roughly double how often the coach talks, so the single clock stays.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/coachcam/go-coach/pkg/audio"
	"github.com/coachcam/go-coach/pkg/detect"
	"github.com/coachcam/go-coach/pkg/tts"
)

// Cooldown windows between utterances.
const (
	DefaultCooldown = 4 * time.Second
	UrgentCooldown  = 2 * time.Second
)

// MaxEvents bounds the feedback event history.
const MaxEvents = 10

// QuestionAnswerTime is how long the candidate gets per question before the
// follow-up phrase fires.
const QuestionAnswerTime = 5 * time.Minute

// Event records one spoken utterance for the dashboard.
type Event struct {
	Time   time.Time `json:"time"`
	Text   string    `json:"text"`
	Urgent bool      `json:"urgent"`
}

// Counts summarizes events inside a time window.
type Counts struct {
	Total  int `json:"total"`
	Urgent int `json:"urgent"`
	Normal int `json:"normal"`
}

// Gate decides whether to speak, picks phrasing, and delegates synthesis
// and playback. All methods are safe for concurrent use; callers should
// invoke them from a worker goroutine so playback never stalls scoring.
type Gate struct {
	provider tts.Provider
	player   audio.Player
	pools    Pools
	logger   *slog.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	lastSpoken time.Time
	events     []Event

	timerMu    sync.Mutex
	qTimer     *time.Timer
	ttsTimeout time.Duration

	now func() time.Time // injected clock for tests
}

// GateOption configures the gate.
type GateOption func(*Gate)

// WithClock injects a clock, for tests.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithRand injects the RNG used for phrase selection, for determinism.
func WithRand(rng *rand.Rand) GateOption {
	return func(g *Gate) { g.rng = rng }
}

// WithPools replaces the default phrase pools.
func WithPools(pools Pools) GateOption {
	return func(g *Gate) { g.pools = pools.fill() }
}

// WithTTSTimeout bounds each synthesis request.
func WithTTSTimeout(d time.Duration) GateOption {
	return func(g *Gate) { g.ttsTimeout = d }
}

// NewGate creates a feedback gate. provider is typically a tts.Chain of
// primary plus fallback; player may be audio.Discard for headless use.
func NewGate(provider tts.Provider, player audio.Player, logger *slog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		provider:   provider,
		player:     player,
		pools:      DefaultPools(),
		logger:     logger.With("component", "feedback.gate"),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		ttsTimeout: 15 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Speak speaks text if the cooldown window has passed. Urgent prompts use
// the shorter window. Returns true only when the utterance was actually
// synthesized and played.
func (g *Gate) Speak(text string, urgent bool) bool {
	cooldown := DefaultCooldown
	if urgent {
		cooldown = UrgentCooldown
	}
	return g.speak(text, urgent, cooldown)
}

// SpeakWithCooldown speaks text with an explicit cooldown window,
// overriding the urgent/default rule. A zero cooldown always speaks.
func (g *Gate) SpeakWithCooldown(text string, urgent bool, cooldown time.Duration) bool {
	return g.speak(text, urgent, cooldown)
}

func (g *Gate) speak(text string, urgent bool, cooldown time.Duration) bool {
	g.mu.Lock()
	now := g.now()
	if now.Sub(g.lastSpoken) < cooldown {
		g.mu.Unlock()
		return false
	}
	g.mu.Unlock()

	// Synthesis and playback happen outside the lock; a slow provider must
	// not block Latest() or CountSince() readers.
	if !g.deliver(text) {
		return false
	}

	g.mu.Lock()
	g.lastSpoken = g.now()
	g.events = append(g.events, Event{Time: g.lastSpoken, Text: text, Urgent: urgent})
	if len(g.events) > MaxEvents {
		g.events = g.events[len(g.events)-MaxEvents:]
	}
	g.mu.Unlock()

	return true
}

// deliver synthesizes and plays the utterance. The provider chain already
// handles the fallback attempt; any remaining failure is logged and
// swallowed so a TTS outage never reaches the caller as an error.
func (g *Gate) deliver(text string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), g.ttsTimeout)
	defer cancel()

	result, err := g.provider.Synthesize(ctx, text)
	if err != nil {
		g.logger.Warn("synthesis failed", "error", err, "chars", len(text))
		return false
	}

	if err := g.player.Play(ctx, result); err != nil {
		g.logger.Warn("playback failed", "error", err)
		return false
	}

	g.logger.Debug("spoke", "text", text)
	return true
}

// GazeFeedback speaks a random gaze reminder.
func (g *Gate) GazeFeedback(urgent bool) bool {
	return g.Speak(g.pick(g.pools.Gaze), urgent)
}

// PoseFeedback speaks the reminder for the given pose issue.
func (g *Gate) PoseFeedback(status detect.PoseStatus, urgent bool) bool {
	text, ok := g.pools.Pose[status]
	if !ok {
		text = "Keep a straight, attentive posture"
	}
	return g.Speak(text, urgent)
}

// GestureFeedback speaks the reminder for the given gesture.
func (g *Gate) GestureFeedback(status detect.GestureStatus, urgent bool) bool {
	text, ok := g.pools.Gesture[status]
	if !ok {
		text = "Avoid unnecessary fidgeting"
	}
	return g.Speak(text, urgent)
}

// FaceMissing reminds the candidate to get back in frame.
func (g *Gate) FaceMissing() bool {
	return g.Speak(g.pools.FaceMissing, true)
}

// Encourage speaks a random encouragement. The caller rate-limits this to
// roughly every 300 frames; the gate only applies the normal cooldown.
func (g *Gate) Encourage() bool {
	return g.Speak(g.pick(g.pools.Encouragement), false)
}

// Welcome speaks the session-start phrase.
func (g *Gate) Welcome() bool {
	return g.Speak(g.pools.Welcome, false)
}

// Goodbye speaks the session-end phrase. Best effort: if background speech
// holds the cooldown, it fails silently.
func (g *Gate) Goodbye() bool {
	return g.Speak(g.pools.Goodbye, false)
}

// VoiceTest speaks the test phrase, ignoring the cooldown.
func (g *Gate) VoiceTest() bool {
	return g.SpeakWithCooldown(g.pools.VoiceTest, false, 0)
}

// AskQuestion announces an interview question, always speaking regardless
// of cooldown, and schedules the answer-time follow-up. Asking a new
// question cancels a previously pending follow-up.
func (g *Gate) AskQuestion(question, position string) bool {
	g.CancelPending()

	text := fmt.Sprintf("%s interview question: %s, you have 5 minutes to answer", position, question)
	ok := g.SpeakWithCooldown(text, false, 0)

	g.timerMu.Lock()
	g.qTimer = time.AfterFunc(QuestionAnswerTime, func() {
		g.SpeakWithCooldown(g.pick(g.pools.QuestionDone), false, 0)
	})
	g.timerMu.Unlock()

	return ok
}

// CancelPending cancels a scheduled question follow-up, if any. Called on
// session stop and before announcing a new question.
func (g *Gate) CancelPending() {
	g.timerMu.Lock()
	defer g.timerMu.Unlock()
	if g.qTimer != nil {
		g.qTimer.Stop()
		g.qTimer = nil
	}
}

// Speaking reports whether the player is mid-playback. Players that do
// not track playback state report false.
func (g *Gate) Speaking() bool {
	if p, ok := g.player.(interface{ Playing() bool }); ok {
		return p.Playing()
	}
	return false
}

// Latest returns the most recent spoken feedback text, empty if none.
func (g *Gate) Latest() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.events) == 0 {
		return ""
	}
	return g.events[len(g.events)-1].Text
}

// Events returns a copy of the recent feedback events.
func (g *Gate) Events() []Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

// CountSince summarizes events within the past window.
func (g *Gate) CountSince(window time.Duration) Counts {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-window)
	var c Counts
	for _, e := range g.events {
		if e.Time.Before(cutoff) {
			continue
		}
		c.Total++
		if e.Urgent {
			c.Urgent++
		} else {
			c.Normal++
		}
	}
	return c
}

func (g *Gate) pick(pool []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(pool) == 0 {
		return ""
	}
	return pool[g.rng.Intn(len(pool))]
}
