// Package coach runs the interview coaching loop: it pulls webcam frames,
// samples the detector on a stride, scores attention, updates the session,
// and dispatches spoken feedback without ever blocking the frame loop.
package coach

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coachcam/go-coach/pkg/camera"
	"github.com/coachcam/go-coach/pkg/detect"
	"github.com/coachcam/go-coach/pkg/feedback"
	"github.com/coachcam/go-coach/pkg/questions"
	"github.com/coachcam/go-coach/pkg/report"
	"github.com/coachcam/go-coach/pkg/score"
	"github.com/coachcam/go-coach/pkg/session"
)

const (
	// DefaultDetectEvery is the detection stride: classify every Nth frame
	// and let the score carry between strides.
	DefaultDetectEvery = 5

	// DefaultFPS paces the frame loop.
	DefaultFPS = 30

	// EncourageEvery is the number of frames between praise checks,
	// about ten seconds at the default pace; EncourageScore is the
	// attention level that earns it.
	EncourageEvery = 300
	EncourageScore = 85.0
)

// Coach wires the capture, detection, scoring, session, question, and
// feedback pieces together.
type Coach struct {
	detector detect.Detector
	source   camera.Source
	gate     *feedback.Gate
	sess     *session.Session
	bank     *questions.Bank
	logger   *slog.Logger

	detectEvery int
	fps         int
	now         func() time.Time

	mu           sync.Mutex
	set          *questions.Set
	cycleCount   int // detection cycles since session start
	sinceEncou   int // frames represented since the last praise check
	lastRecord   score.Record
	questionsOut bool

	speakQ    chan func()
	workerOne sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Option configures a Coach.
type Option func(*Coach)

// WithDetectEvery sets the detection stride.
func WithDetectEvery(n int) Option {
	return func(c *Coach) {
		if n > 0 {
			c.detectEvery = n
		}
	}
}

// WithFPS sets the frame loop pace.
func WithFPS(fps int) Option {
	return func(c *Coach) {
		if fps > 0 {
			c.fps = fps
		}
	}
}

// WithClock injects the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coach) { c.now = now }
}

// New creates a Coach. The source may be a live webcam or a synthetic feed.
func New(detector detect.Detector, source camera.Source, gate *feedback.Gate,
	sess *session.Session, bank *questions.Bank, logger *slog.Logger, opts ...Option) *Coach {

	c := &Coach{
		detector:    detector,
		source:      source,
		gate:        gate,
		sess:        sess,
		bank:        bank,
		logger:      logger.With("component", "coach"),
		detectEvery: DefaultDetectEvery,
		fps:         DefaultFPS,
		now:         time.Now,
		speakQ:      make(chan func(), 8),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run drives the frame loop until the context is cancelled. Frames are
// pulled at the configured pace; detection and scoring happen only on the
// stride, and only while a session is running.
func (c *Coach) Run(ctx context.Context) error {
	c.startWorker()

	interval := time.Second / time.Duration(c.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
		}

		if !c.sess.Running() {
			continue
		}

		frame++
		if frame%c.detectEvery != 0 {
			continue
		}

		jpeg, err := c.source.Frame()
		if err != nil {
			c.logger.Debug("no frame available", "error", err)
			continue
		}
		c.ProcessFrame(jpeg)
	}
}

// ProcessFrame runs one detection cycle on a JPEG frame: sample the
// detector, score the signal, fold it into the session, and queue whatever
// feedback applies. It returns the signal and the history record.
func (c *Coach) ProcessFrame(jpeg []byte) (detect.Signal, score.Record) {
	sig := detect.Sample(c.detector, jpeg, c.now())

	composite, rec := score.Compute(sig, c.sess.Elapsed(), c.sess.Score())
	c.sess.Observe(sig, composite, rec)

	c.mu.Lock()
	c.cycleCount++
	// Each detection cycle stands for a full stride of frames, so the
	// praise cadence tracks frames even though scoring is strided.
	c.sinceEncou += c.detectEvery
	c.lastRecord = rec
	encourage := c.sinceEncou >= EncourageEvery && composite >= EncourageScore
	if c.sinceEncou >= EncourageEvery {
		c.sinceEncou = 0
	}
	c.mu.Unlock()

	c.queueFeedback(sig, encourage)
	return sig, rec
}

// queueFeedback turns a signal into at most a handful of gate calls on the
// speech worker. The gate's cooldown decides what is actually spoken.
func (c *Coach) queueFeedback(sig detect.Signal, encourage bool) {
	if !sig.FaceDetected {
		c.dispatch(func() { c.gate.FaceMissing() })
		return
	}

	switch sig.Gaze {
	case detect.GazeModerateOffset, detect.GazeSevereOffset:
		c.dispatch(func() { c.gate.GazeFeedback(sig.Gaze == detect.GazeSevereOffset) })
	}

	switch sig.Pose {
	case detect.PoseHeadUp, detect.PoseHeadDown, detect.PoseTilted, detect.PoseTurned:
		pose := sig.Pose
		c.dispatch(func() { c.gate.PoseFeedback(pose, false) })
	}

	switch sig.Gesture {
	case detect.GestureTouchFace, detect.GestureTouchChin, detect.GestureTouchHair, detect.GestureRestChin:
		gesture := sig.Gesture
		c.dispatch(func() { c.gate.GestureFeedback(gesture, false) })
	}

	if encourage {
		c.dispatch(func() { c.gate.Encourage() })
	}
}

// dispatch queues a speech action without blocking the caller. A full queue
// means speech is already backed up, so the action is dropped; the cooldown
// would have suppressed most of it anyway.
func (c *Coach) dispatch(fn func()) {
	select {
	case c.speakQ <- fn:
	default:
	}
}

func (c *Coach) startWorker() {
	c.workerOne.Do(func() {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case fn := <-c.speakQ:
					fn()
				case <-c.done:
					return
				}
			}
		}()
	})
}

func (c *Coach) shutdown() {
	c.gate.CancelPending()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.wg.Wait()
}

// StartSession begins a coaching session for a position: the session state
// resets, a fresh question set is assembled, and the welcome line plus the
// first question are queued. Starting over a running session restarts it.
func (c *Coach) StartSession(position string) *questions.Question {
	c.startWorker()
	c.gate.CancelPending()

	c.sess.Start(position)

	set := c.bank.ForPosition(position)
	first := set.Next()

	c.mu.Lock()
	c.set = set
	c.cycleCount = 0
	c.sinceEncou = 0
	c.questionsOut = false
	c.mu.Unlock()

	c.logger.Info("session started",
		"session_id", c.sess.ID(),
		"position", position,
		"questions", set.Len())

	c.dispatch(func() { c.gate.Welcome() })
	if first != nil {
		q := *first
		pos := position
		c.dispatch(func() { c.gate.AskQuestion(q.Question, pos) })
	}
	return first
}

// NextQuestion advances to the next question and queues it for speech.
// It returns nil when the set is exhausted.
func (c *Coach) NextQuestion() *questions.Question {
	c.mu.Lock()
	set := c.set
	c.mu.Unlock()
	if set == nil {
		return nil
	}

	q := set.Next()
	if q == nil {
		c.mu.Lock()
		c.questionsOut = true
		c.mu.Unlock()
		return nil
	}

	pos := c.sess.Position()
	qq := *q
	c.dispatch(func() { c.gate.AskQuestion(qq.Question, pos) })
	return q
}

// CurrentQuestion returns the question being answered, nil outside a
// session or before the first question.
func (c *Coach) CurrentQuestion() *questions.Question {
	c.mu.Lock()
	set := c.set
	c.mu.Unlock()
	if set == nil {
		return nil
	}
	return set.Current()
}

// QuestionProgress returns answered-so-far and total counts.
func (c *Coach) QuestionProgress() (asked, total int) {
	c.mu.Lock()
	set := c.set
	c.mu.Unlock()
	if set == nil {
		return 0, 0
	}
	return set.Len() - set.Remaining(), set.Len()
}

// StopSession ends the session and returns the final report. The report is
// computed from the history before anything is reset, and the goodbye line
// is queued after pending question timers are cancelled.
func (c *Coach) StopSession() report.Report {
	c.gate.CancelPending()

	rep := report.Analyze(c.sess.History(), c.sess.Score())
	c.sess.Stop()

	c.logger.Info("session stopped",
		"session_id", c.sess.ID(),
		"final_score", rep.FinalScore,
		"records", rep.TotalRecords)

	c.dispatch(func() { c.gate.Goodbye() })
	return rep
}

// Report analyzes the session so far without stopping it.
func (c *Coach) Report() report.Report {
	return report.Analyze(c.sess.History(), c.sess.Score())
}

// Status returns the current session snapshot.
func (c *Coach) Status() session.Snapshot {
	return c.sess.Snapshot()
}

// Session exposes the underlying session for read access.
func (c *Coach) Session() *session.Session {
	return c.sess
}

// Gate exposes the feedback gate, mainly for the voice test endpoint.
func (c *Coach) Gate() *feedback.Gate {
	return c.gate
}

// Source exposes the frame source for the snapshot and video endpoints.
func (c *Coach) Source() camera.Source {
	return c.source
}
