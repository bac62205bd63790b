package session

import (
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/sound"
)

// QuizConfig tunes the per-question quiz.
type QuizConfig struct {
	QuestionTime time.Duration
	RevealTime   time.Duration
	AdvanceDelay time.Duration
}

// DefaultQuizConfig gives 30 seconds per question and a 2 second reveal.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		QuestionTime: 30 * time.Second,
		RevealTime:   2 * time.Second,
		AdvanceDelay: 500 * time.Millisecond,
	}
}

// Quiz shows each definition in order and expects its term to be typed
// before the question timer runs out.
type Quiz struct {
	cfg      QuizConfig
	opts     Options
	concepts []model.Concept

	status    Status
	index     int
	correct   int
	outcomes  []model.ConceptOutcome
	typist    *typist
	timer     timer
	pauseEnd  time.Time
	startedAt time.Time
	endedAt   time.Time
}

// NewQuiz returns a quiz over concepts in the given order.
func NewQuiz(concepts []model.Concept, cfg QuizConfig, opts Options) (*Quiz, error) {
	if len(concepts) == 0 {
		return nil, ErrNoConcepts
	}
	opts = opts.withDefaults()
	q := &Quiz{cfg: cfg, opts: opts, concepts: append([]model.Concept(nil), concepts...)}
	q.Retry()
	return q, nil
}

// Retry resets the quiz to its first question, not started.
func (q *Quiz) Retry() {
	q.status = StatusNotStarted
	q.index = 0
	q.correct = 0
	q.outcomes = nil
	q.typist = newTypist(q.opts.Now, q.opts.Sound)
	q.typist.target(q.concepts[0].Term)
	q.timer = timer{}
	q.startedAt = time.Time{}
	q.endedAt = time.Time{}
}

func (q *Quiz) Status() Status { return q.status }
func (q *Quiz) Current() model.Concept { return q.concepts[q.index] }
func (q *Quiz) Index() int { return q.index }
func (q *Quiz) Total() int { return len(q.concepts) }
func (q *Quiz) CorrectAnswers() int { return q.correct }
func (q *Quiz) Input() string { return q.typist.field.Value() }
func (q *Quiz) Metrics() model.SessionMetrics { return q.typist.engine.Metrics() }
func (q *Quiz) Revealing() bool { return q.status == StatusRevealing }
func (q *Quiz) QuestionTime() time.Duration { return q.cfg.QuestionTime }

// Remaining is the time left on the current question.
func (q *Quiz) Remaining() time.Duration {
	switch q.status {
	case StatusNotStarted:
		return q.cfg.QuestionTime
	case StatusInProgress:
		return q.timer.remaining(q.opts.Now())
	default:
		return 0
	}
}

// Type handles one typed rune. The first keystroke starts the quiz.
func (q *Quiz) Type(r rune) {
	q.expire()
	if !q.acceptsInput() {
		return
	}
	q.begin()
	q.typist.typeRune(r)
	q.checkComplete()
}

// SetInput replaces the whole input, judging only the added runes.
func (q *Quiz) SetInput(value string) {
	q.expire()
	if !q.acceptsInput() {
		return
	}
	if value != "" {
		q.begin()
	}
	q.typist.set(value)
	q.checkComplete()
}

// Backspace removes the last typed rune.
func (q *Quiz) Backspace() {
	if q.status != StatusInProgress {
		return
	}
	q.typist.field.Backspace()
}

// Tick advances timers. Call it at least every typing.TickInterval.
func (q *Quiz) Tick() {
	now := q.opts.Now()
	switch q.status {
	case StatusInProgress:
		q.typist.engine.Tick()
		warn, expired := q.timer.check(now)
		if warn {
			q.opts.Sound.Play(sound.TimeWarning)
		}
		if expired {
			q.opts.Sound.Play(sound.Incorrect)
			q.outcomes = append(q.outcomes, model.ConceptOutcome{ConceptID: q.Current().ID, Correct: false})
			q.status = StatusRevealing
			q.pauseEnd = now.Add(q.cfg.RevealTime)
		}
	case StatusAdvancing, StatusRevealing:
		q.typist.engine.Tick()
		if !now.Before(q.pauseEnd) {
			q.advance(now)
		}
	}
}

// Result returns the scored outcome once the quiz is finished.
func (q *Quiz) Result() (model.GameResult, error) {
	if q.status != StatusFinished {
		return model.GameResult{}, ErrNotFinished
	}
	return newResult(model.ModeQuiz, q.typist.engine.Metrics(), q.correct, len(q.concepts), q.outcomes, q.startedAt, q.endedAt), nil
}

// expire applies a deadline that passed since the last Tick, so late input
// cannot beat the timeout.
func (q *Quiz) expire() {
	if q.status == StatusInProgress {
		q.Tick()
	}
}

func (q *Quiz) acceptsInput() bool {
	return q.status == StatusNotStarted || q.status == StatusInProgress
}

func (q *Quiz) begin() {
	if q.status != StatusNotStarted {
		return
	}
	now := q.opts.Now()
	q.status = StatusInProgress
	q.startedAt = now
	q.typist.engine.Start()
	q.timer.reset(now, q.cfg.QuestionTime)
}

func (q *Quiz) checkComplete() {
	if q.status != StatusInProgress || !q.typist.field.Complete() {
		return
	}
	q.opts.Sound.Play(sound.Correct)
	q.correct++
	q.outcomes = append(q.outcomes, model.ConceptOutcome{ConceptID: q.Current().ID, Correct: true})
	now := q.opts.Now()
	if q.index == len(q.concepts)-1 {
		q.finish(now)
		return
	}
	if q.cfg.AdvanceDelay <= 0 {
		q.advance(now)
		return
	}
	q.status = StatusAdvancing
	q.pauseEnd = now.Add(q.cfg.AdvanceDelay)
}

func (q *Quiz) advance(now time.Time) {
	if q.index == len(q.concepts)-1 {
		q.finish(now)
		return
	}
	q.index++
	q.typist.target(q.Current().Term)
	q.timer.reset(now, q.cfg.QuestionTime)
	q.status = StatusInProgress
}

func (q *Quiz) finish(now time.Time) {
	q.typist.engine.Tick()
	q.typist.engine.Stop()
	q.status = StatusFinished
	q.endedAt = now
	q.opts.Sound.Play(sound.LevelComplete)
}
