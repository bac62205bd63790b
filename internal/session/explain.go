package session

import (
	"context"
	"time"

	"github.com/verte-zerg/typemaster/internal/ai"
	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/sound"
)

// ExplanationSource generates an explanation for a concept.
type ExplanationSource interface {
	Explain(ctx context.Context, concept model.Concept) (ai.Explanation, error)
}

// ExplanationDelivery is the reply to an explanation Request.
type ExplanationDelivery struct {
	Ticket      uint64
	Explanation ai.Explanation
	Err         error
}

// Explain asks the learner to type a term, then fetches an explanation of it.
type Explain struct {
	opts     Options
	concepts []model.Concept
	source   ExplanationSource

	ctx    context.Context
	cancel context.CancelFunc

	status      Status
	index       int
	explored    int
	ticket      uint64
	pending     *Request
	typist      *typist
	explanation ai.Explanation
	lastErr     error
	outcomes    []model.ConceptOutcome
	startedAt   time.Time
}

// NewExplain shuffles concepts and starts on the first one.
func NewExplain(parent context.Context, concepts []model.Concept, source ExplanationSource, opts Options) (*Explain, error) {
	if len(concepts) == 0 {
		return nil, ErrNoConcepts
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(parent)
	e := &Explain{
		opts:      opts,
		concepts:  generator.Shuffled(opts.Rand, concepts),
		source:    source,
		ctx:       ctx,
		cancel:    cancel,
		startedAt: opts.Now(),
	}
	e.typist = newTypist(opts.Now, opts.Sound)
	e.resetTyping()
	return e, nil
}

// Current returns the concept being typed or explained.
func (e *Explain) Current() model.Concept {
	return e.concepts[e.index%len(e.concepts)]
}

func (e *Explain) Status() Status { return e.status }
func (e *Explain) Explored() int { return e.explored }
func (e *Explain) Input() string { return e.typist.field.Value() }
func (e *Explain) Metrics() model.SessionMetrics { return e.typist.engine.Metrics() }
func (e *Explain) Explanation() ai.Explanation { return e.explanation }
func (e *Explain) Err() error { return e.lastErr }

// Type handles one typed rune during the typing step.
func (e *Explain) Type(r rune) {
	if !e.typing() {
		return
	}
	e.begin()
	e.typist.typeRune(r)
	e.checkComplete()
}

// SetInput replaces the whole input during the typing step.
func (e *Explain) SetInput(value string) {
	if !e.typing() {
		return
	}
	if value != "" {
		e.begin()
	}
	e.typist.set(value)
	e.checkComplete()
}

// Backspace removes the last typed rune.
func (e *Explain) Backspace() {
	if e.typing() {
		e.typist.field.Backspace()
	}
}

// Tick recomputes typing metrics.
func (e *Explain) Tick() {
	if e.status == StatusInProgress {
		e.typist.engine.Tick()
	}
}

// TakeRequest hands out the pending explanation request once.
func (e *Explain) TakeRequest() (Request, bool) {
	if e.pending == nil {
		return Request{}, false
	}
	req := *e.pending
	e.pending = nil
	return req, true
}

// Fetch performs the explanation call for req. It blocks.
func (e *Explain) Fetch(req Request) ExplanationDelivery {
	expl, err := e.source.Explain(e.ctx, req.Concept)
	return ExplanationDelivery{Ticket: req.Ticket, Explanation: expl, Err: err}
}

// Deliver applies an explanation reply, dropping stale ones.
func (e *Explain) Deliver(d ExplanationDelivery) bool {
	if e.status != StatusLoading || d.Ticket != e.ticket {
		e.opts.Log.Debug("dropped stale explanation", "ticket", d.Ticket, "current", e.ticket, "status", e.status.String())
		return false
	}
	if d.Err != nil {
		e.lastErr = d.Err
		e.status = StatusFailed
		e.opts.Log.Warn("explanation failed", "concept", e.Current().ID, "err", d.Err)
		return true
	}
	e.explanation = d.Explanation
	e.lastErr = nil
	e.explored++
	e.status = StatusShowing
	return true
}

// Retry re-requests the explanation after a failure.
func (e *Explain) Retry() {
	if e.status != StatusFailed {
		return
	}
	e.request()
}

// Retype returns to the typing step for the same concept.
func (e *Explain) Retype() {
	if e.status != StatusFailed && e.status != StatusShowing {
		return
	}
	e.resetTyping()
}

// Next moves on to the following concept.
func (e *Explain) Next() {
	if e.status == StatusExited || e.status == StatusLoading {
		return
	}
	e.index++
	e.resetTyping()
}

// Exit abandons the mode and cancels any in-flight request.
func (e *Explain) Exit() {
	e.status = StatusExited
	e.pending = nil
	e.cancel()
}

// Result summarises the explored concepts. Explain mode awards no XP.
func (e *Explain) Result() model.GameResult {
	res := newResult(model.ModeExplain, model.SessionMetrics{Accuracy: 100}, e.explored, e.explored, e.outcomes, e.startedAt, e.opts.Now())
	res.XP = 0
	return res
}

func (e *Explain) typing() bool {
	return e.status == StatusNotStarted || e.status == StatusInProgress
}

func (e *Explain) begin() {
	if e.status == StatusNotStarted {
		e.status = StatusInProgress
		e.typist.engine.Start()
	}
}

func (e *Explain) checkComplete() {
	if !e.typist.field.Complete() {
		return
	}
	e.opts.Sound.Play(sound.Correct)
	e.typist.engine.Stop()
	e.outcomes = append(e.outcomes, model.ConceptOutcome{ConceptID: e.Current().ID, Correct: true})
	e.request()
}

func (e *Explain) request() {
	e.ticket++
	e.pending = &Request{Ticket: e.ticket, Concept: e.Current()}
	e.lastErr = nil
	e.status = StatusLoading
}

func (e *Explain) resetTyping() {
	e.typist.engine.Reset()
	e.typist.target(e.Current().Term)
	e.explanation = ai.Explanation{}
	e.lastErr = nil
	e.pending = nil
	e.status = StatusNotStarted
}
