package session

import (
	"time"

	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/sound"
)

// SkipKey is the input that skips the current race term.
const SkipKey = '\t'

// RaceConfig tunes the timed race.
type RaceConfig struct {
	Duration time.Duration
}

// DefaultRaceConfig runs for 60 seconds.
func DefaultRaceConfig() RaceConfig {
	return RaceConfig{Duration: 60 * time.Second}
}

// Race cycles through shuffled terms until the session timer expires.
type Race struct {
	cfg      RaceConfig
	opts     Options
	source   []model.Concept
	concepts []model.Concept

	status    Status
	index     int
	correct   int
	skipped   int
	outcomes  []model.ConceptOutcome
	typist    *typist
	timer     timer
	startedAt time.Time
	endedAt   time.Time
}

// NewRace returns a race over a shuffled copy of concepts.
func NewRace(concepts []model.Concept, cfg RaceConfig, opts Options) (*Race, error) {
	if len(concepts) == 0 {
		return nil, ErrNoConcepts
	}
	opts = opts.withDefaults()
	r := &Race{cfg: cfg, opts: opts, source: append([]model.Concept(nil), concepts...)}
	r.Retry()
	return r, nil
}

// Retry reshuffles and returns to the not-started state.
func (r *Race) Retry() {
	r.concepts = generator.Shuffled(r.opts.Rand, r.source)
	r.status = StatusNotStarted
	r.index = 0
	r.correct = 0
	r.skipped = 0
	r.outcomes = nil
	r.typist = newTypist(r.opts.Now, r.opts.Sound)
	r.typist.target(r.Current().Term)
	r.timer = timer{}
	r.startedAt = time.Time{}
	r.endedAt = time.Time{}
}

// Current returns the term being raced. Terms repeat once all are used.
func (r *Race) Current() model.Concept {
	return r.concepts[r.index%len(r.concepts)]
}

func (r *Race) Status() Status { return r.status }
func (r *Race) CorrectAnswers() int { return r.correct }
func (r *Race) Skipped() int { return r.skipped }
func (r *Race) Input() string { return r.typist.field.Value() }
func (r *Race) Metrics() model.SessionMetrics { return r.typist.engine.Metrics() }
func (r *Race) Duration() time.Duration { return r.cfg.Duration }

// Remaining is the time left in the race.
func (r *Race) Remaining() time.Duration {
	switch r.status {
	case StatusNotStarted:
		return r.cfg.Duration
	case StatusInProgress:
		return r.timer.remaining(r.opts.Now())
	default:
		return 0
	}
}

// Type handles one typed rune. SkipKey skips instead of typing.
func (r *Race) Type(c rune) {
	if c == SkipKey {
		r.Skip()
		return
	}
	r.expire()
	if r.status != StatusNotStarted && r.status != StatusInProgress {
		return
	}
	r.begin()
	r.typist.typeRune(c)
	r.checkComplete()
}

// SetInput replaces the whole input, judging only the added runes.
func (r *Race) SetInput(value string) {
	r.expire()
	if r.status != StatusNotStarted && r.status != StatusInProgress {
		return
	}
	if value != "" {
		r.begin()
	}
	r.typist.set(value)
	r.checkComplete()
}

// Backspace removes the last typed rune.
func (r *Race) Backspace() {
	if r.status != StatusInProgress {
		return
	}
	r.typist.field.Backspace()
}

// Skip moves to the next term without credit. It does nothing before the
// race has started.
func (r *Race) Skip() bool {
	r.expire()
	if r.status != StatusInProgress {
		return false
	}
	r.skipped++
	r.outcomes = append(r.outcomes, model.ConceptOutcome{ConceptID: r.Current().ID, Correct: false})
	r.next()
	return true
}

// Tick advances the race clock and ends the race when time runs out.
func (r *Race) Tick() {
	if r.status != StatusInProgress {
		return
	}
	r.typist.engine.Tick()
	warn, expired := r.timer.check(r.opts.Now())
	if warn {
		r.opts.Sound.Play(sound.TimeWarning)
	}
	if expired {
		r.typist.engine.Stop()
		r.status = StatusFinished
		r.endedAt = r.opts.Now()
		r.opts.Sound.Play(sound.LevelComplete)
	}
}

// Result returns the scored race once time has run out.
func (r *Race) Result() (model.GameResult, error) {
	if r.status != StatusFinished {
		return model.GameResult{}, ErrNotFinished
	}
	res := newResult(model.ModeRace, r.typist.engine.Metrics(), r.correct, r.correct+r.skipped, r.outcomes, r.startedAt, r.endedAt)
	res.Skipped = r.skipped
	return res, nil
}

// expire ends the race if its deadline passed since the last Tick.
func (r *Race) expire() {
	if r.status == StatusInProgress {
		r.Tick()
	}
}

func (r *Race) begin() {
	if r.status != StatusNotStarted {
		return
	}
	now := r.opts.Now()
	r.status = StatusInProgress
	r.startedAt = now
	r.typist.engine.Start()
	r.timer.reset(now, r.cfg.Duration)
}

func (r *Race) checkComplete() {
	if r.status != StatusInProgress || !r.typist.field.Complete() {
		return
	}
	r.opts.Sound.Play(sound.Correct)
	r.correct++
	r.outcomes = append(r.outcomes, model.ConceptOutcome{ConceptID: r.Current().ID, Correct: true})
	r.next()
}

func (r *Race) next() {
	r.index++
	r.typist.target(r.Current().Term)
}
