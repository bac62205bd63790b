// Package session runs the gameplay loops: typed quiz and race levels and
// the AI-assisted quiz and explain challenges.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/logger"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/scoring"
	"github.com/verte-zerg/typemaster/internal/sound"
	"github.com/verte-zerg/typemaster/internal/typing"
)

var (
	// ErrNotFinished is returned by Result before the session ends.
	ErrNotFinished = errors.New("session not finished")

	// ErrNoConcepts is returned when a session would have nothing to ask.
	ErrNoConcepts = errors.New("no concepts available")

	// ErrCredentialRequired is returned when an AI mode is entered without
	// a stored, valid API key.
	ErrCredentialRequired = errors.New("a valid API key is required")

	// ErrNotAnswerable is returned by Answer outside the asking state.
	ErrNotAnswerable = errors.New("no question is awaiting an answer")
)

// Status is the lifecycle state of a session.
type Status int

// Session states.
const (
	StatusNotStarted Status = iota
	StatusInProgress
	// StatusAdvancing is the short pause after a correct answer.
	StatusAdvancing
	// StatusRevealing shows the correct answer after a timeout or an AI answer.
	StatusRevealing
	StatusLoading
	StatusFailed
	StatusShowing
	StatusFinished
	StatusExited
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusInProgress:
		return "in-progress"
	case StatusAdvancing:
		return "advancing"
	case StatusRevealing:
		return "revealing"
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusShowing:
		return "showing"
	case StatusFinished:
		return "finished"
	case StatusExited:
		return "exited"
	default:
		return "unknown"
	}
}

// WarnThreshold is the remaining time at which the time warning cue plays.
const WarnThreshold = 10 * time.Second

// Options are the collaborators shared by every session. Zero values are
// replaced with time.Now, a silent player, a time-seeded generator and a
// no-op logger.
type Options struct {
	Now   func() time.Time
	Sound sound.Player
	Rand  *generator.Generator
	Log   *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sound == nil {
		o.Sound = sound.Nop{}
	}
	if o.Rand == nil {
		o.Rand = generator.New()
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	return o
}

// typist couples one target field with the metrics engine.
type typist struct {
	engine *typing.Engine
	field  *typing.Field
	sound  sound.Player
}

func newTypist(now func() time.Time, player sound.Player) *typist {
	return &typist{engine: typing.New(now), field: typing.NewField(""), sound: player}
}

func (t *typist) target(term string) {
	t.field = typing.NewField(term)
}

func (t *typist) typeRune(r rune) {
	t.engine.RecordKeypress(t.field.Type(r))
	t.sound.Play(sound.Keypress)
}

func (t *typist) set(value string) {
	for _, ok := range t.field.Set(value) {
		t.engine.RecordKeypress(ok)
		t.sound.Play(sound.Keypress)
	}
}

// timer is a countdown on the session clock that warns once.
type timer struct {
	deadline time.Time
	warned   bool
}

func (t *timer) reset(now time.Time, d time.Duration) {
	t.deadline = now.Add(d)
	t.warned = false
}

func (t *timer) remaining(now time.Time) time.Duration {
	rem := t.deadline.Sub(now)
	if rem < 0 {
		return 0
	}
	return rem
}

// check reports whether the warning should fire now and whether time is up.
func (t *timer) check(now time.Time) (warn, expired bool) {
	rem := t.deadline.Sub(now)
	if rem <= 0 {
		return false, true
	}
	if rem <= WarnThreshold && !t.warned {
		t.warned = true
		return true, false
	}
	return false, false
}

func newResult(mode model.Mode, metrics model.SessionMetrics, correct, total int, outcomes []model.ConceptOutcome, started, ended time.Time) model.GameResult {
	return model.GameResult{
		ID:             uuid.NewString(),
		Mode:           mode,
		Title:          scoring.Title(mode, correct, metrics.Accuracy),
		XP:             scoring.ComputeXP(correct, metrics.Accuracy, mode),
		WPM:            metrics.WPM,
		Accuracy:       metrics.Accuracy,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Outcomes:       append([]model.ConceptOutcome(nil), outcomes...),
		StartedAt:      started,
		EndedAt:        ended,
	}
}
